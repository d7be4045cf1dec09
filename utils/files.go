package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// FriendlyFileName shortens a path for log output, relative to the working directory where possible
func FriendlyFileName(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
