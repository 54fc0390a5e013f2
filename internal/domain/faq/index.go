package faq

import (
	"sync/atomic"
	"time"
)

type snapshot struct {
	matcher *Matcher
	stats   CorpusStats
}

// Index holds the matcher serving queries. Rebuilds publish a new matcher
// with Swap; readers never observe a partially built one.
type Index struct {
	current atomic.Pointer[snapshot]
}

// Swap publishes m as the active matcher and returns its stats.
func (i *Index) Swap(m *Matcher, source string, loadedAt time.Time) CorpusStats {
	stats := CorpusStats{
		Source:     source,
		Entries:    m.corpus.Entries(),
		Questions:  m.corpus.Len(),
		Vocabulary: m.VocabularySize(),
		LoadedAt:   loadedAt,
	}
	i.current.Store(&snapshot{matcher: m, stats: stats})
	return stats
}

// Matcher returns the active matcher, or nil before the first Swap.
func (i *Index) Matcher() *Matcher {
	if snap := i.current.Load(); snap != nil {
		return snap.matcher
	}
	return nil
}

// Stats describes the active matcher.
func (i *Index) Stats() (CorpusStats, bool) {
	if snap := i.current.Load(); snap != nil {
		return snap.stats, true
	}
	return CorpusStats{}, false
}
