package deploy

import (
	"sort"
	"strings"

	"github.com/GlintPay/grip/secrets"
)

const Mask = "*****"

// Redact masks every non-empty secret value in text. Longer values are replaced first so that a
// value containing another one is never partially revealed.
func Redact(text string, values secrets.Values) string {
	vals := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			vals = append(vals, v)
		}
	}
	sort.Slice(vals, func(i, j int) bool {
		if len(vals[i]) != len(vals[j]) {
			return len(vals[i]) > len(vals[j])
		}
		return vals[i] < vals[j]
	})

	for _, v := range vals {
		text = strings.ReplaceAll(text, v, Mask)
	}
	return text
}
