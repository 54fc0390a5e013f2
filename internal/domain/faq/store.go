package faq

import "context"

// Store persists query statistics. Implementations must be safe for concurrent use.
type Store interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
	RecordUnanswered(ctx context.Context, canonical, display string) error
	TopUnanswered(ctx context.Context, limit int) ([]UnansweredQuery, error)
}
