package sops

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/getsops/sops/v3/decrypt"
	"gopkg.in/yaml.v3"
)

const (
	FormatYaml   = "yaml"
	FormatDotenv = "dotenv"
)

// IsEncrypted checks whether the content carries SOPS metadata: a top-level `sops` key for YAML,
// or a `sops_mac=` line for dotenv.
func IsEncrypted(data []byte, format string) bool {
	switch format {
	case FormatYaml:
		var content map[string]any
		if err := yaml.Unmarshal(data, &content); err != nil {
			return false
		}
		_, hasSops := content["sops"]
		return hasSops
	case FormatDotenv:
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if strings.HasPrefix(strings.TrimSpace(scanner.Text()), "sops_mac=") {
				return true
			}
		}
	}
	return false
}

// Decrypt returns the decrypted content if SOPS-encrypted, the original content if not,
// or an error if decryption fails (e.g. no access to the key)
func Decrypt(data []byte, format string) ([]byte, error) {
	if !IsEncrypted(data, format) {
		return data, nil
	}

	decrypted, err := decrypt.Data(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt SOPS-encrypted content: %w", err)
	}

	return decrypted, nil
}
