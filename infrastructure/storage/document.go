package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteDocument stores an export under dir/name, replacing any previous one.
func WriteDocument(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("export write: %w", err)
	}
	return path, nil
}
