package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendlyFileName(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		val      string
		expected string
	}{
		{name: "inside", val: filepath.Join(wd, "sub", "application.yml"), expected: filepath.Join("sub", "application.yml")},
		{name: "relative", val: "application.yml", expected: "application.yml"},
		{name: "outside", val: "/definitely/elsewhere.yml", expected: "/definitely/elsewhere.yml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FriendlyFileName(tt.val))
		})
	}
}
