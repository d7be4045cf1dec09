package filetypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockDecrypter struct{}

func (m mockDecrypter) Decrypt(data []byte, _ string) ([]byte, error) {
	return data, nil
}

type erroringDecrypter struct{}

func (m erroringDecrypter) Decrypt([]byte, string) ([]byte, error) {
	return nil, errors.New("error")
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name   string
		format string
		ok     bool
	}{
		{name: "secrets.yml", format: "yaml", ok: true},
		{name: "dir/secrets.YAML", format: "yaml", ok: true},
		{name: ".env", format: "dotenv", ok: true},
		{name: "/etc/grip/production.env", format: "dotenv", ok: true},
		{name: "secrets.json", ok: false},
		{name: "environment", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, ok := FormatOf(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.format, format)
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     []byte
		decrypter   Decrypter
		expectError bool
		expected    map[string]string
	}{
		{
			name: "nested yaml",
			file: "secrets.yml",
			content: []byte(`
anthropic:
  api_key: sk-ant-1
portainer:
  endpoint_id: 2
  stack_id: 14
TS_AUTHKEY: tskey-abc
ratio: 0.5
hosts: [a, b]
enabled: true
`),
			decrypter: mockDecrypter{},
			expected: map[string]string{
				"ANTHROPIC_API_KEY":     "sk-ant-1",
				"PORTAINER_ENDPOINT_ID": "2",
				"PORTAINER_STACK_ID":    "14",
				"TS_AUTHKEY":            "tskey-abc",
				"RATIO":                 "0.5",
				"HOSTS":                 "a,b",
				"ENABLED":               "true",
			},
		},
		{
			name: "yaml with sops metadata",
			file: "secrets.yaml",
			content: []byte(`
ANTHROPIC_API_KEY: ENC[AES256_GCM,data:abc123]
sops:
    lastmodified: "2024-02-10T12:00:00Z"
    mac: abc123
    version: 3.7.3
`),
			decrypter: mockDecrypter{},
			expected: map[string]string{
				"ANTHROPIC_API_KEY": "ENC[AES256_GCM,data:abc123]",
			},
		},
		{
			name: "dotenv",
			file: "production.env",
			content: []byte(`# comment
export PORTAINER_URL=https://nas.tailnet:9443
ANTHROPIC_API_KEY="sk-ant-2"
QUOTED='a b'
sops_mac=xyz
`),
			decrypter: mockDecrypter{},
			expected: map[string]string{
				"PORTAINER_URL":     "https://nas.tailnet:9443",
				"ANTHROPIC_API_KEY": "sk-ant-2",
				"QUOTED":            "a b",
			},
		},
		{
			name:        "decryption fails",
			file:        "secrets.yml",
			content:     []byte("sops:\n  mac: abc\n"),
			decrypter:   erroringDecrypter{},
			expectError: true,
		},
		{
			name: "invalid yaml",
			file: "secrets.yml",
			content: []byte(`
invalid: : yaml
  - broken structure
`),
			decrypter:   mockDecrypter{},
			expectError: true,
		},
		{
			name:        "unsupported",
			file:        "secrets.json",
			content:     []byte(`{}`),
			decrypter:   mockDecrypter{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Decode(tt.file, tt.content, tt.decrypter)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
