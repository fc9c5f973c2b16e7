package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SplitExt splits path into everything before the extension and the
// extension itself. A leading dot in the file name does not start an
// extension, so ".archive" has none.
func SplitExt(path string) (root, ext string) {
	ext = filepath.Ext(path)
	base := filepath.Base(path)
	if ext == "" || strings.TrimLeft(base, ".") == strings.TrimLeft(ext, ".") {
		return path, ""
	}
	return strings.TrimSuffix(path, ext), ext
}

// InsertSuffix returns path with suffix placed before its extension:
// "page.mhtml" becomes "page_fixed.mhtml" for suffix "_fixed".
func InsertSuffix(path, suffix string) string {
	root, ext := SplitExt(path)
	return root + suffix + ext
}

// WriteFileAtomic writes data to a temporary file beside path and renames it
// into place, so path is either absent or complete.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s; %w", dir, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temporary file; %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on temporary file; %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file; %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file to %s; %w", path, err)
	}

	return nil
}

// SamePath reports whether a and b name the same file, comparing cleaned
// absolute paths.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
