package faq

import "context"

// Source loads the FAQ entries a matcher is built from.
type Source interface {
	Load(ctx context.Context) ([]Entry, error)
	// Describe names the source for logs and stats, e.g. "file:faqs.json".
	Describe() string
}
