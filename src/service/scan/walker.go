// Package scan collects the source files of a project tree.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"perf-analyzer/src/config"
	"perf-analyzer/src/util"
)

// Walker finds files with configured extensions below a root directory
type Walker struct {
	extensions     map[string]bool
	excludes       *util.ExclusionMatcher
	followSymlinks bool
}

// NewWalker creates a walker from scan settings. Extensions are matched
// case-insensitively, with or without a leading dot.
func NewWalker(cfg config.ScanConfig) *Walker {
	exts := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts[ext] = true
		}
	}
	return &Walker{
		extensions:     exts,
		excludes:       util.NewExclusionMatcher(cfg.ExcludePatterns),
		followSymlinks: cfg.FollowSymlinks,
	}
}

// Collect returns the matching regular files below root, sorted. root may
// also name a single file, which is returned if its extension matches.
func (w *Walker) Collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		if w.wants(root) {
			return []string{root}, nil
		}
		return []string{}, nil
	}

	files := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			util.Warn("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath != "." && w.excludes.Matches(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !w.regular(path, d) || !w.wants(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(files)
	util.Debug("Collected %d files under %s", len(files), root)
	return files, nil
}

// regular reports whether the entry is a regular file. Symlinks count only
// when following is enabled and they resolve to a regular file.
func (w *Walker) regular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 || !w.followSymlinks {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (w *Walker) wants(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return ext != "" && w.extensions[ext]
}
