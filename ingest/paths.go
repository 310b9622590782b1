package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveFiles expands patterns to candidate document files. A pattern may
// be a file, a directory (searched recursively) or a glob with "**"
// support. Only supported document extensions are returned, each once, in
// the order they are first found.
//
// Examples:
//   - "papers/p1.yaml" → ["papers/p1.yaml"]
//   - "papers" → every .yaml, .yml and .json file below papers
//   - "papers/**/*.json" → every .json file below papers
func ResolveFiles(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	return resolved, nil
}

func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return documentsIn(pattern)
		}
		return []string{filepath.Clean(pattern)}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, m := range matches {
		if Supported(m) {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no documents match pattern: %s", pattern)
	}
	return files, nil
}

func documentsIn(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, m := range matches {
		if Supported(m) {
			files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
		}
	}
	sort.Strings(files)
	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
