package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leefowlercu/mhtmlfix/internal/config"
)

// ResolvePath expands "~" and returns an absolute, cleaned path.
// Empty input returns an empty string.
func ResolvePath(path string) (string, error) {
	expanded := config.ExpandPath(path)
	if expanded == "" {
		return "", nil
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q; %w", path, err)
	}

	return filepath.Clean(absPath), nil
}

// ResolveFilePath resolves path like ResolvePath and rejects existing
// directories. A path that does not exist is returned as-is.
func ResolveFilePath(path string) (string, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(resolved); err == nil && info.IsDir() {
		return "", fmt.Errorf("%s is a directory", resolved)
	}

	return resolved, nil
}
