package deploy

import (
	"testing"

	"github.com/GlintPay/grip/secrets"
	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		values secrets.Values
		want   string
	}{
		{
			name:   "masks each value",
			text:   "key=sk-ant-123 token=ptr_abc",
			values: secrets.Values{"ANTHROPIC_API_KEY": "sk-ant-123", "PORTAINER_TOKEN": "ptr_abc"},
			want:   "key=***** token=*****",
		},
		{
			name:   "longest first",
			text:   "a=secret b=secret-extended",
			values: secrets.Values{"A": "secret", "B": "secret-extended"},
			want:   "a=***** b=*****",
		},
		{
			name:   "empty values ignored",
			text:   "nothing to hide",
			values: secrets.Values{"EMPTY": ""},
			want:   "nothing to hide",
		},
		{
			name: "no values",
			text: "plain",
			want: "plain",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.text, tt.values))
		})
	}
}
