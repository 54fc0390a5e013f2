package faq

import (
	"testing"
	"time"
)

func TestIndexEmptyUntilSwap(t *testing.T) {
	var idx Index
	if idx.Matcher() != nil {
		t.Fatalf("expected no matcher before swap")
	}
	if _, ok := idx.Stats(); ok {
		t.Fatalf("expected no stats before swap")
	}

	m, err := BuildMatcher(libraryEntries(), NewNormalizer(testStopWords), MatcherOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loadedAt := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	stats := idx.Swap(m, "file:faqs.json", loadedAt)
	if stats.Entries != 3 || stats.Questions != 5 || stats.Vocabulary != m.VocabularySize() {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if idx.Matcher() != m {
		t.Fatalf("expected swapped matcher to be active")
	}
	got, ok := idx.Stats()
	if !ok || got != stats {
		t.Fatalf("expected stats %+v got %+v", stats, got)
	}
}
