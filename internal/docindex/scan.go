// Package docindex builds and maintains the note stem -> path index that
// word classification reads from.
package docindex

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/grindlemire/memonoa/internal/log"
)

// DefaultExtensions are the note file extensions indexed when none are configured.
var DefaultExtensions = []string{".md", ".txt"}

// Options controls a scan.
type Options struct {
	Root       string
	Extensions []string // empty means every regular file
	Recursive  bool
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scan walks opts.Root and maps every note's stem to its absolute path.
// Hidden entries and vendored directories are skipped. When two notes share
// a stem the first one in walk order wins.
func Scan(ctx context.Context, opts Options) (map[string]string, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", opts.Root, err)
	}

	docs := make(map[string]string)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Index("Skipping %s: %v", path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !opts.Recursive || skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if !matchesExt(path, opts.Extensions) {
			return nil
		}

		stem := Stem(path)
		if prev, ok := docs[stem]; ok {
			log.Index("Duplicate stem %q: keeping %s, ignoring %s", stem, prev, path)
			return nil
		}
		docs[stem] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	log.Index("Scanned %s: %d documents", root, len(docs))
	return docs, nil
}

// skipDir reports whether a directory is never descended into.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor"
}

func matchesExt(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
