// Package wordlist loads word lists for generated passages.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmpty reports a word list with no usable words.
var ErrEmpty = errors.New("word list is empty")

// LoadWords reads a word list file. See ReadWords for the format.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file)
}

// ReadWords reads whitespace-separated words. Lines starting with '#' are
// comments. Words are lower-cased, rejected words are skipped and
// duplicates keep their first position.
func ReadWords(r io.Reader) ([]string, error) {
	seen := map[string]struct{}{}
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		for _, field := range strings.Fields(line) {
			word := strings.ToLower(field)
			if !Keep(word) {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
