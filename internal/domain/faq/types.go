package faq

import "time"

// Source labels where an answer came from.
const (
	SourceCorpus   = "corpus"
	SourceFallback = "fallback"
)

// Entry is one canonical answer with every phrasing that should reach it.
type Entry struct {
	Questions []string `json:"questions" yaml:"questions"`
	Answer    string   `json:"answer" yaml:"answer"`
}

// Request encapsulates a user query.
type Request struct {
	Question string `json:"question"`
}

// Response is returned to the transports.
type Response struct {
	Question        string          `json:"question"`
	Answer          string          `json:"answer"`
	Matched         bool            `json:"matched"`
	MatchedQuestion string          `json:"matchedQuestion,omitempty"`
	Score           float64         `json:"score"`
	Source          string          `json:"source"`
	Recommendations []TrendingQuery `json:"recommendations"`
	DurationMs      int64           `json:"durationMs"`
}

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// UnansweredQuery is a query that repeatedly fell back.
type UnansweredQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// CorpusStats describes the matcher currently serving queries.
type CorpusStats struct {
	Source     string    `json:"source"`
	Entries    int       `json:"entries"`
	Questions  int       `json:"questions"`
	Vocabulary int       `json:"vocabulary"`
	LoadedAt   time.Time `json:"loadedAt"`
}

// ReloadResult is reported after a successful rebuild-and-swap.
type ReloadResult struct {
	Stats      CorpusStats `json:"stats"`
	DurationMs int64       `json:"durationMs"`
}
