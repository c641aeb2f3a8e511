package record

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Discover lists the files in dir matching pattern, ordered by SortKey and
// then by name.
func Discover(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory: %s is not a directory", dir)
	}
	if pattern == "" {
		pattern = "*.json"
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}

	slices.SortStableFunc(files, func(a, b string) int {
		if ka, kb := SortKey(a), SortKey(b); ka != kb {
			return ka - kb
		}
		return strings.Compare(filepath.Base(a), filepath.Base(b))
	})
	return files, nil
}

// SortKey is the number after the first underscore in the file stem, so
// "card_12.json" sorts as 12. Stems without such a number sort as 0.
func SortKey(path string) int {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, "_")
	if len(parts) < 2 || parts[1] == "" {
		return 0
	}
	for _, c := range parts[1] {
		if c < '0' || c > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return n
}
