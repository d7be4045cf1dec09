package filetypes

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GlintPay/grip/sops"
	"github.com/joho/godotenv"
	"github.com/wolfeidau/unflatten"
	"sigs.k8s.io/yaml"
)

// FormatOf picks the decoder for a file name: .yml/.yaml are YAML, .env and *.env are dotenv
func FormatOf(name string) (string, bool) {
	base := strings.ToLower(filepath.Base(name))
	switch {
	case strings.HasSuffix(base, ".yml"), strings.HasSuffix(base, ".yaml"):
		return sops.FormatYaml, true
	case base == ".env", strings.HasSuffix(base, ".env"):
		return sops.FormatDotenv, true
	}
	return "", false
}

// Decode turns a secret file into flat name/value pairs, decrypting it first when needed
func Decode(name string, data []byte, d Decrypter) (map[string]string, error) {
	format, ok := FormatOf(name)
	if !ok {
		return nil, fmt.Errorf("unsupported secret file type: %s", name)
	}

	plain, err := d.Decrypt(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if format == sops.FormatDotenv {
		return FromDotenvToValues(plain)
	}
	return FromYamlToValues(plain)
}

func FromDotenvToValues(data []byte) (map[string]string, error) {
	values, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, err
	}
	for k := range values {
		if strings.HasPrefix(k, "sops_") {
			delete(values, k)
		}
	}
	return values, nil
}

// FromYamlToValues flattens nested keys into environment-style names:
// `anthropic: {api_key: x}` becomes `ANTHROPIC_API_KEY=x`. Lists are comma-joined.
func FromYamlToValues(data []byte) (map[string]string, error) {
	var structured map[string]any
	if e := yaml.Unmarshal(data, &structured); e != nil {
		return nil, e
	}
	delete(structured, "sops")

	flat := unflatten.Flatten(structured, envTokenizer)

	values := make(map[string]string, len(flat))
	for k, v := range flat {
		values[k] = stringValue(v)
	}
	return values, nil
}

var envTokenizer = func(ks []string) string {
	return strings.ToUpper(strings.Join(ks, "_"))
}

func stringValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []any:
		parts := make([]string, 0, len(typed))
		for _, each := range typed {
			parts = append(parts, stringValue(each))
		}
		return strings.Join(parts, ",")
	case float64:
		// JSON numbers from sigs.k8s.io/yaml; keep integers free of exponents
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprintf("%v", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
