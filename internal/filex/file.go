// Package filex provides staging-directory lifecycle helpers and file
// copying primitives used by the dump codec. A staging directory is owned
// exclusively by the export/import call that created it and must be removed
// on every exit path.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// NewStagingDir creates a uniquely named directory under the system temp
// root and returns its path. The caller owns cleanup (see RemoveDir).
func NewStagingDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "eventsync-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// RemoveDir deletes dir and everything under it. Removing a directory that
// is already gone is not an error.
func RemoveDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}

// EnsureSubDir creates (if needed) and returns the subdirectory name under
// parent.
func EnsureSubDir(parent, name string) (string, error) {
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// CopyFile copies src to dst, creating parent directories as needed.
// An existing dst is overwritten.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(dst), err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
