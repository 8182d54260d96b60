package dump

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// manifestName is excluded from the checksum walk: the manifest carries the
// checksum, so it cannot be part of the hashed tree.
const manifestName = "manifest.json"

// computeTreeChecksum hashes the staged dump tree: every regular file
// except the manifest, visited in lexicographic order of its slash-
// separated relative path, feeding the path bytes followed by the content
// bytes into one running SHA-256. Export and import must replicate the
// identical walk or every comparison fails.
func computeTreeChecksum(root string) (string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == manifestName {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, rel := range paths {
		if _, err := h.Write([]byte(rel)); err != nil {
			return "", err
		}
		f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
