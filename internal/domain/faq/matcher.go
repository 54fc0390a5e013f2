package faq

import (
	"errors"
	"strings"
)

// MatcherOptions tunes the decision rule.
type MatcherOptions struct {
	// Threshold is the score a best match must exceed. Non-positive values use DefaultThreshold.
	Threshold float64
	// FallbackMessage is returned when nothing clears the threshold.
	FallbackMessage string
}

func (o MatcherOptions) withDefaults() MatcherOptions {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if strings.TrimSpace(o.FallbackMessage) == "" {
		o.FallbackMessage = DefaultFallbackMessage
	}
	return o
}

// Match is the outcome of scoring a single query.
type Match struct {
	// Index is the corpus row of the best score, or -1 when the query fell back.
	Index      int
	Score      float64
	Matched    bool
	Question   string
	Answer     string
	Normalized string
}

// Matcher answers queries from a frozen TF-IDF model of the corpus.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	opts       MatcherOptions
	normalizer *Normalizer
	corpus     Corpus
	normalized []string
	model      *vectorizer
	rows       []sparseVector
}

// NewMatcher normalizes and vectorizes every corpus question.
// It fails with a *LoadError when the corpus is empty or yields no vocabulary.
func NewMatcher(corpus Corpus, normalizer *Normalizer, opts MatcherOptions) (*Matcher, error) {
	if corpus.Len() == 0 {
		return nil, corpusError(ErrEmptyCorpus)
	}
	if len(corpus.Questions) != len(corpus.Answers) {
		return nil, corpusError(errors.New("questions and answers are not aligned"))
	}
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}

	normalized := make([]string, corpus.Len())
	for i, question := range corpus.Questions {
		normalized[i] = normalizer.Normalize(question)
	}
	model, rows, err := fitVectorizer(normalized)
	if err != nil {
		return nil, corpusError(err)
	}

	return &Matcher{
		opts:       opts.withDefaults(),
		normalizer: normalizer,
		corpus:     corpus,
		normalized: normalized,
		model:      model,
		rows:       rows,
	}, nil
}

// BuildMatcher flattens entries and fits a matcher in one step.
func BuildMatcher(entries []Entry, normalizer *Normalizer, opts MatcherOptions) (*Matcher, error) {
	corpus, err := NewCorpus(entries)
	if err != nil {
		return nil, err
	}
	return NewMatcher(corpus, normalizer, opts)
}

// Match scores query against every corpus question and applies the threshold.
func (m *Matcher) Match(query string) Match {
	normalized := m.normalizer.Normalize(query)
	vector := m.model.transform(normalized)

	best, bestScore := 0, cosine(vector, m.rows[0])
	for i := 1; i < len(m.rows); i++ {
		// strict comparison keeps the first of equal scores
		if score := cosine(vector, m.rows[i]); score > bestScore {
			best, bestScore = i, score
		}
	}

	if bestScore > m.opts.Threshold {
		return Match{
			Index:      best,
			Score:      bestScore,
			Matched:    true,
			Question:   m.corpus.Questions[best],
			Answer:     m.corpus.Answers[best],
			Normalized: normalized,
		}
	}
	return Match{
		Index:      -1,
		Score:      bestScore,
		Answer:     m.opts.FallbackMessage,
		Normalized: normalized,
	}
}

// Respond returns the matched answer or the fallback message.
func (m *Matcher) Respond(query string) string {
	return m.Match(query).Answer
}

// Corpus returns the flattened corpus the matcher was fit on.
func (m *Matcher) Corpus() Corpus {
	return m.corpus
}

// VocabularySize reports the number of terms in the frozen model.
func (m *Matcher) VocabularySize() int {
	return m.model.size()
}

// FallbackMessage returns the message used for unmatched queries.
func (m *Matcher) FallbackMessage() string {
	return m.opts.FallbackMessage
}
