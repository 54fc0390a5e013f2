package faq

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned when a source yields no questions.
	ErrEmptyCorpus = errors.New("faq corpus is empty")
	// ErrEmptyVocabulary is returned when every question normalizes away.
	ErrEmptyVocabulary = errors.New("faq corpus has an empty vocabulary after normalization")
	// ErrMalformedEntry is returned for entries missing a question or an answer.
	ErrMalformedEntry = errors.New("malformed faq entry")
	// ErrNotLoaded is returned when the service is asked before any corpus was built.
	ErrNotLoaded = errors.New("faq matcher not loaded")
)

// LoadError reports why a corpus could not be turned into a matcher.
type LoadError struct {
	// Entry is the zero-based index of the offending entry, or -1 for corpus-wide failures.
	Entry  int
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Entry >= 0 {
		return fmt.Sprintf("faq load: entry %d: %s", e.Entry, e.Reason)
	}
	return "faq load: " + e.Reason
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MalformedEntry reports a source record that cannot become an Entry.
func MalformedEntry(index int, reason string) error {
	return &LoadError{Entry: index, Reason: reason, Err: ErrMalformedEntry}
}

func corpusError(err error) error {
	return &LoadError{Entry: -1, Reason: err.Error(), Err: err}
}
