package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolvePaths expands a path or a doublestar glob ("data/**/*.jsonl") into
// the matching files, sorted. A pattern matching nothing yields ErrNotFound.
func ResolvePaths(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		info, err := os.Stat(pattern)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, pattern)
			}
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", pattern)
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no files match %s", ErrNotFound, pattern)
	}
	slices.Sort(matches)
	return matches, nil
}

// ReadAll loads and concatenates the records of every file matching pattern.
func ReadAll(pattern string) ([]Record, error) {
	paths, err := ResolvePaths(pattern)
	if err != nil {
		return nil, err
	}

	var all []Record
	for _, p := range paths {
		records, err := ReadJSONL(p)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}
