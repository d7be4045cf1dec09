package utils

import (
	"strings"
)

// SplitNonEmpty splits a comma-separated list, trimming entries and dropping blanks
func SplitNonEmpty(csv string) []string {
	array := strings.Split(csv, ",")
	adjusted := make([]string, 0)
	for _, each := range array {
		trimmed := strings.TrimSpace(each)
		if trimmed != "" {
			adjusted = append(adjusted, trimmed)
		}
	}
	return adjusted
}
