package filter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// exclusionFile returns the path of the per-tag exclusion list. Each tag
// keeps its own list so separate corpora do not deduplicate against each
// other.
func exclusionFile(dir, tag string) string {
	return filepath.Join(dir, fmt.Sprintf("excluded_%s.txt", tag))
}

// LoadExclusions reads the exclusion list for a tag: one previously
// accepted question per line. A missing file is an empty list.
func LoadExclusions(dir, tag string) ([]string, error) {
	f, err := os.Open(exclusionFile(dir, tag))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open exclusion list: %w", err)
	}
	defer f.Close()

	var questions []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			questions = append(questions, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read exclusion list: %w", err)
	}
	return questions, nil
}

// SaveExclusions rewrites the exclusion list for a tag with the full set of
// questions seen so far, sorted for stable diffs.
func SaveExclusions(dir, tag string, questions []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create exclusion dir: %w", err)
	}
	sorted := make([]string, len(questions))
	copy(sorted, questions)
	sort.Strings(sorted)

	f, err := os.Create(exclusionFile(dir, tag))
	if err != nil {
		return fmt.Errorf("write exclusion list: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, q := range sorted {
		fmt.Fprintln(w, q)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write exclusion list: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write exclusion list: %w", err)
	}
	return nil
}
