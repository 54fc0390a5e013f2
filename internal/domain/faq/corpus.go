package faq

import (
	"strconv"
	"strings"
)

// Corpus is the flattened view of the FAQ entries: one row per phrasing.
// Answers[i] answers Questions[i] for every i.
type Corpus struct {
	Questions []string
	Answers   []string
	entries   int
}

// NewCorpus expands every entry into one row per question, preserving order.
// Any malformed entry rejects the whole corpus.
func NewCorpus(entries []Entry) (Corpus, error) {
	if len(entries) == 0 {
		return Corpus{}, corpusError(ErrEmptyCorpus)
	}
	corpus := Corpus{entries: len(entries)}
	for i, entry := range entries {
		if strings.TrimSpace(entry.Answer) == "" {
			return Corpus{}, MalformedEntry(i, "answer is missing")
		}
		if len(entry.Questions) == 0 {
			return Corpus{}, MalformedEntry(i, "question is missing")
		}
		for j, question := range entry.Questions {
			if strings.TrimSpace(question) == "" {
				return Corpus{}, MalformedEntry(i, "question "+strconv.Itoa(j)+" is empty")
			}
			corpus.Questions = append(corpus.Questions, question)
			corpus.Answers = append(corpus.Answers, entry.Answer)
		}
	}
	return corpus, nil
}

// Len returns the number of question rows.
func (c Corpus) Len() int {
	return len(c.Questions)
}

// Entries returns how many source entries produced the corpus.
func (c Corpus) Entries() int {
	return c.entries
}
