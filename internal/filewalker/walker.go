package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Walker discovers source files whose base names match configured glob
// patterns.
type Walker struct {
	log       zerolog.Logger
	patterns  []string
	recursive bool
	exclude   string
}

// New creates a Walker. exclude names a directory whose subtree is
// never reported, typically the translation output root.
func New(log zerolog.Logger, patterns []string, recursive bool, exclude string) *Walker {
	return &Walker{
		log:       log,
		patterns:  patterns,
		recursive: recursive,
		exclude:   exclude,
	}
}

// Walk returns the matching files under root in sorted order.
func (w *Walker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var exclude string
	if w.exclude != "" {
		exclude, err = filepath.Abs(w.exclude)
		if err != nil {
			return nil, fmt.Errorf("resolve exclude path: %w", err)
		}
	}

	patterns := make([]string, 0, len(w.patterns))
	for _, p := range w.patterns {
		if _, err := filepath.Match(p, "probe"); err != nil {
			w.log.Warn().Str("pattern", p).Msg("ignoring malformed file pattern")
			continue
		}
		patterns = append(patterns, p)
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("error walking path")
			return nil
		}

		if info.IsDir() {
			if exclude != "" && path == exclude {
				return filepath.SkipDir
			}
			if !w.recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		base := filepath.Base(path)
		for _, p := range patterns {
			if ok, _ := filepath.Match(p, base); ok {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	files = lo.Uniq(files)
	sort.Strings(files)

	w.log.Info().Int("count", len(files)).Str("root", root).Msg("discovered files")
	return files, nil
}
