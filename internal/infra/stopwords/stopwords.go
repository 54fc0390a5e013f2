// Package stopwords supplies the stop-word sets injected into the FAQ normalizer.
package stopwords

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed turkish.txt
var turkishList string

// Set is an immutable collection of stop words.
type Set struct {
	words map[string]struct{}
}

// Folder maps a word onto the canonical form the normalizer produces.
type Folder func(string) string

// New builds a set from words. When fold is non-nil every word is also
// stored in its folded form, so "için" and "icin" are both dropped.
// A nil fold keeps the list verbatim.
func New(words []string, fold Folder) Set {
	set := Set{words: make(map[string]struct{}, len(words)*2)}
	for _, word := range words {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		set.words[word] = struct{}{}
		if fold != nil {
			if folded := fold(word); folded != "" {
				set.words[folded] = struct{}{}
			}
		}
	}
	return set
}

func turkishWords() []string {
	words, _ := parse(strings.NewReader(turkishList))
	return words
}

// Load returns the built-in list for lang merged with the words in extraFile.
// An empty extraFile adds nothing.
func Load(lang, extraFile string, fold Folder) (Set, error) {
	var words []string
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "tr", "turkish":
		words = turkishWords()
	case "none":
	default:
		return Set{}, fmt.Errorf("unsupported stop-word language %q", lang)
	}

	if extraFile != "" {
		f, err := os.Open(extraFile)
		if err != nil {
			return Set{}, fmt.Errorf("open stop-word file: %w", err)
		}
		defer f.Close()
		extra, err := parse(f)
		if err != nil {
			return Set{}, fmt.Errorf("read stop-word file: %w", err)
		}
		words = append(words, extra...)
	}
	return New(words, fold), nil
}

// Contains reports whether word is a stop word.
func (s Set) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Len returns the number of stored forms.
func (s Set) Len() int {
	return len(s.words)
}

// parse reads one word per line; blank lines and # comments are skipped.
func parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	return words, scanner.Err()
}
