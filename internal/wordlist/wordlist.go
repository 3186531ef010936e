// Package wordlist loads lists of excluded terms.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// FilePrefix marks an exclude setting that names a word list file.
const FilePrefix = "file:"

// Set is a set of lowercased words.
type Set map[string]struct{}

// NewSet builds a set from words, lowercased and trimmed.
func NewSet(words []string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// Has reports whether word is in the set, ignoring case.
func (s Set) Has(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// LoadWords reads one word per line from the provided file path. Blank lines
// and lines starting with '#' are skipped.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	words, err := readWords(file)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s is empty", path)
	}
	return words, nil
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// Resolve turns an exclude setting into a set. The setting is either
// "file:<path>" or a comma-separated list of words.
func Resolve(exclude string) (Set, error) {
	exclude = strings.TrimSpace(exclude)
	if exclude == "" {
		return Set{}, nil
	}
	if path, ok := strings.CutPrefix(exclude, FilePrefix); ok {
		words, err := LoadWords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load exclude list: %w", err)
		}
		return NewSet(words), nil
	}
	return NewSet(strings.Split(exclude, ",")), nil
}
