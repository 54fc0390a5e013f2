package faqstore

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/faqbot/internal/domain/faq"
)

// counter tallies canonical queries and remembers how each was first typed.
type counter struct {
	counts   map[string]int64
	displays map[string]string
}

func newCounter() counter {
	return counter{counts: make(map[string]int64), displays: make(map[string]string)}
}

func (c counter) add(canonical, display string) {
	c.counts[canonical]++
	if _, exists := c.displays[canonical]; !exists && display != "" {
		c.displays[canonical] = display
	}
}

// top returns display/count pairs ordered by count, then by display text.
func (c counter) top(limit int) []faq.TrendingQuery {
	if limit <= 0 {
		limit = len(c.counts)
	}
	items := make([]faq.TrendingQuery, 0, len(c.counts))
	for canonical, count := range c.counts {
		display := c.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, faq.TrendingQuery{Query: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// MemoryStore keeps query statistics in process memory. Used for dev and as
// the fallback when Valkey is unavailable.
type MemoryStore struct {
	mu         sync.Mutex
	trending   counter
	unanswered counter
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trending: newCounter(), unanswered: newCounter()}
}

// IncrementQuery implements faq.Store.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trending.add(canonical, display)
	return nil
}

// TopQueries implements faq.Store.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]faq.TrendingQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trending.top(limit), nil
}

// RecordUnanswered implements faq.Store.
func (s *MemoryStore) RecordUnanswered(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unanswered.add(canonical, display)
	return nil
}

// TopUnanswered implements faq.Store.
func (s *MemoryStore) TopUnanswered(_ context.Context, limit int) ([]faq.UnansweredQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	top := s.unanswered.top(limit)
	out := make([]faq.UnansweredQuery, len(top))
	for i, item := range top {
		out[i] = faq.UnansweredQuery(item)
	}
	return out, nil
}

var _ faq.Store = (*MemoryStore)(nil)
