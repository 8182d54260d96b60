package dump

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/eventsync/eventsync/internal/common"
)

// zipTree writes every regular file under srcDir into one deflate-
// compressed archive, entry names slash-separated relative paths.
func zipTree(srcDir string, w io.Writer) error {
	zw := zip.NewWriter(w)

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(entry, f)
		_ = f.Close()
		return err
	})
	if err != nil {
		_ = zw.Close()
		return fmt.Errorf("zip %s: %w", srcDir, err)
	}
	return zw.Close()
}

// unzipInto extracts an in-memory archive into dstDir. Entry names that
// escape dstDir mark the archive as malformed.
func unzipInto(data []byte, dstDir string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: not a zip archive: %v", common.ErrMalformedDump, err)
	}

	for _, entry := range zr.File {
		name := filepath.FromSlash(entry.Name)
		if strings.Contains(entry.Name, "..") || filepath.IsAbs(name) {
			return fmt.Errorf("%w: unsafe entry path %q", common.ErrMalformedDump, entry.Name)
		}
		dst := filepath.Join(dstDir, name)

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(dst, 0o700); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o700); err != nil {
			return err
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("open entry %s: %w", entry.Name, err)
		}
		out, err := os.Create(dst)
		if err != nil {
			_ = rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		_ = rc.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("extract %s: %w", entry.Name, err)
		}
	}
	return nil
}
