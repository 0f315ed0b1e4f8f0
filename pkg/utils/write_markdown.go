package utils

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteMarkdown writes content to dir/fileName, creating dir if needed, and
// returns the full path.
func WriteMarkdown(dir, fileName, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	filePath := filepath.Join(dir, fileName)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	slog.Debug("markdown written", "path", filePath)
	return filePath, nil
}
