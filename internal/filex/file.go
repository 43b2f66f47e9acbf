// Package filex provides small filesystem helpers shared by the kiosk
// storage layers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubDir creates (if needed) and returns a subdirectory of parent.
func EnsureSubDir(parent, name string) (string, error) {
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// SanitizeName replaces whitespace in a file name with underscores so the
// result is safe to store inside a granted directory.
func SanitizeName(name string) string {
	return strings.Join(strings.Fields(name), "_")
}
