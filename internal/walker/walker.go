// Package walker implements the §4.3 file discovery phase: a deterministic,
// recursive traversal that yields the files a scan should analyze, skipping
// hidden directories and configured exclusions. It follows the two-phase
// walk/filter shape used in the Harvx discovery walker (walk the tree first,
// decide per-entry, collect), built directly on filepath.WalkDir rather than
// the gitignore/pattern-filter machinery that package composes, since §4.3's
// only filtering input is Config.IsPathExcluded.
package walker

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Excluder reports whether a path should be skipped, per §4.2.
type Excluder interface {
	IsPathExcluded(path string) bool
}

// Walk traverses root recursively and returns every regular file beneath it,
// in deterministic (lexical) order, excluding hidden directories (any path
// component beginning with "." other than "." or "..") and any path for
// which excl.IsPathExcluded reports true. Exclusion is checked against both
// files and directories, so an excluded directory is pruned entirely rather
// than merely having its contents filtered out one by one.
//
// ctx is checked between directory entries; cancellation stops the walk
// promptly and returns ctx.Err(), consistent with §5's cooperative
// cancellation.
func Walk(ctx context.Context, root string, excl Excluder) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if excl != nil && excl.IsPathExcluded(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
