package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// File is one sequence member: its path and the index parsed from the
// `name_<index>.ext` convention, -1 when the name carries no index.
type File struct {
	Path  string
	Index int
}

// ExtractIndex parses the frame number between the last underscore and
// the extension. Returns -1 for names that do not follow the pattern.
func ExtractIndex(name string) int {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	us := strings.LastIndex(stem, "_")
	if us < 0 || us == len(stem)-1 {
		return -1
	}
	n, err := strconv.Atoi(stem[us+1:])
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// Scan lists the image files of a folder ordered by frame index.
// Unindexed files sort first, ties break by name so the order is stable
// across platforms.
func Scan(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
		default:
			continue
		}
		files = append(files, File{
			Path:  filepath.Join(dir, e.Name()),
			Index: ExtractIndex(e.Name()),
		})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no image files in %s", dir)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Index != files[j].Index {
			return files[i].Index < files[j].Index
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Nth keeps every n-th file, always including the first. Used for
// preview grade loading only, exports always take the full sequence.
func Nth(files []File, n int) []File {
	if n <= 1 {
		return files
	}
	out := make([]File, 0, len(files)/n+1)
	for i := 0; i < len(files); i += n {
		out = append(out, files[i])
	}
	return out
}

// Range slices [start, end] out of the sequence with both bounds clamped
// to valid indices. end < 0 means the last file.
func Range(files []File, start, end int) []File {
	if len(files) == 0 {
		return files
	}
	if start < 0 {
		start = 0
	}
	if end < 0 || end >= len(files) {
		end = len(files) - 1
	}
	if start > end {
		return nil
	}
	return files[start : end+1]
}

// Paths strips the index info, the export pipeline only needs the order.
func Paths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
