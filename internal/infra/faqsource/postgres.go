package faqsource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

// Schema expected by PostgresSource:
//
//	CREATE TABLE faq_entries (
//		id        BIGSERIAL PRIMARY KEY,
//		position  INT NOT NULL DEFAULT 0,
//		questions TEXT[] NOT NULL,
//		answer    TEXT NOT NULL
//	);
const selectEntries = `
	SELECT questions, answer
	FROM faq_entries
	ORDER BY position, id
`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads FAQ entries from the faq_entries table.
type PostgresSource struct {
	db querier
}

// NewPostgresSource constructs the source.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: pool}
}

// Load implements faq.Source.
func (s *PostgresSource) Load(ctx context.Context) ([]faq.Entry, error) {
	rows, err := s.db.Query(ctx, selectEntries)
	if err != nil {
		return nil, fmt.Errorf("query faq entries: %w", err)
	}
	defer rows.Close()

	var entries []faq.Entry
	for rows.Next() {
		var entry faq.Entry
		if err := rows.Scan(&entry.Questions, &entry.Answer); err != nil {
			return nil, fmt.Errorf("scan faq entry %d: %w", len(entries), err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faq entries: %w", err)
	}
	return entries, nil
}

// Describe implements faq.Source.
func (s *PostgresSource) Describe() string {
	return "postgres:faq_entries"
}

var _ faq.Source = (*PostgresSource)(nil)
