// Package media discovers dump artifacts on removable storage. A scan
// walks the configured mount roots and returns every file matching the
// dump naming convention.
package media

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eventsync/eventsync/internal/logging"
)

const (
	dumpPrefix = "eventsync_"
	dumpExt    = ".aes"
)

// Scanner lists candidate dump files under a set of roots. Unreadable
// roots and subtrees are skipped, not fatal: a scan over removable media
// must survive half-mounted or permission-restricted devices.
type Scanner struct {
	roots  []string
	logger logging.Logger
}

func NewScanner(roots []string, logger logging.Logger) *Scanner {
	return &Scanner{roots: roots, logger: logger.With("module", "media_scanner")}
}

// IsDumpFile reports whether a file name follows the dump convention.
func IsDumpFile(name string) bool {
	return strings.HasPrefix(name, dumpPrefix) && strings.HasSuffix(name, dumpExt)
}

// Scan returns absolute paths of all candidate dumps, sorted by name so
// older artifacts (timestamped names) come first.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	var found []string
	for _, root := range s.roots {
		if _, err := os.Stat(root); err != nil {
			s.logger.Debug(ctx, "skipping unavailable root", "root", root, "error", err)
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.Warn(ctx, "skipping unreadable entry", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !d.IsDir() && IsDumpFile(d.Name()) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.SkipDir) {
			return nil, err
		}
	}
	sort.Strings(found)
	return found, nil
}
