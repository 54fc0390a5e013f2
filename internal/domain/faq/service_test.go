package faq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	apperrors "github.com/yanqian/faqbot/pkg/errors"
)

func TestServiceAnswerMatched(t *testing.T) {
	store := newStubStore()
	svc := newServiceUnderTest(t, &stubSource{entries: libraryEntries()}, store)

	resp, err := svc.Answer(context.Background(), Request{Question: "Açılış saati nedir?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Matched || resp.Answer != openingAnswer {
		t.Fatalf("expected matched %q got %+v", openingAnswer, resp)
	}
	if resp.Source != SourceCorpus {
		t.Fatalf("expected source %q got %q", SourceCorpus, resp.Source)
	}
	if resp.MatchedQuestion != "Açılış saati nedir?" {
		t.Fatalf("unexpected matched question %q", resp.MatchedQuestion)
	}
	if want := map[string]int64{"acilis saati nedir": 1}; !reflect.DeepEqual(store.trending, want) {
		t.Fatalf("expected trending %v got %v", want, store.trending)
	}
	if len(store.unanswered) != 0 {
		t.Fatalf("expected no unanswered queries got %v", store.unanswered)
	}
	if len(resp.Recommendations) != 1 {
		t.Fatalf("expected one recommendation got %d", len(resp.Recommendations))
	}
}

func TestServiceAnswerFallbackRecordsUnanswered(t *testing.T) {
	store := newStubStore()
	svc := newServiceUnderTest(t, &stubSource{entries: libraryEntries()}, store)

	resp, err := svc.Answer(context.Background(), Request{Question: "Hava durumu nasıl?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Matched || resp.Source != SourceFallback {
		t.Fatalf("expected fallback got %+v", resp)
	}
	if resp.Answer != DefaultFallbackMessage {
		t.Fatalf("expected %q got %q", DefaultFallbackMessage, resp.Answer)
	}
	if resp.MatchedQuestion != "" {
		t.Fatalf("expected no matched question got %q", resp.MatchedQuestion)
	}
	if want := map[string]int64{"hava durumu": 1}; !reflect.DeepEqual(store.unanswered, want) {
		t.Fatalf("expected unanswered %v got %v", want, store.unanswered)
	}
}

func TestServiceAnswerEmptyQuestionFallsBackWithoutRecording(t *testing.T) {
	store := newStubStore()
	svc := newServiceUnderTest(t, &stubSource{entries: libraryEntries()}, store)

	resp, err := svc.Answer(context.Background(), Request{Question: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != DefaultFallbackMessage {
		t.Fatalf("expected %q got %q", DefaultFallbackMessage, resp.Answer)
	}
	if len(store.trending) != 0 || len(store.unanswered) != 0 {
		t.Fatalf("expected nothing recorded got %v / %v", store.trending, store.unanswered)
	}
}

func TestServiceAnswerSurvivesStoreFailure(t *testing.T) {
	store := newStubStore()
	store.err = errors.New("valkey down")
	svc := newServiceUnderTest(t, &stubSource{entries: libraryEntries()}, store)

	resp, err := svc.Answer(context.Background(), Request{Question: "Kartımı kaybettim"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Matched {
		t.Fatalf("expected a match")
	}
	if resp.Recommendations != nil {
		t.Fatalf("expected no recommendations got %v", resp.Recommendations)
	}

	if _, err := svc.Trending(context.Background()); !apperrors.IsCode(err, apperrors.CodeFAQError) {
		t.Fatalf("expected faq error got %v", err)
	}
}

func TestServiceReloadSwapsMatcher(t *testing.T) {
	source := &stubSource{entries: libraryEntries()}
	svc := newServiceUnderTest(t, source, newStubStore())

	source.entries = []Entry{{Questions: []string{"Wifi şifresi nedir?"}, Answer: "kutuphane2024"}}
	result, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stats.Entries != 1 || result.Stats.Source != "stub" {
		t.Fatalf("unexpected stats %+v", result.Stats)
	}

	resp, err := svc.Answer(context.Background(), Request{Question: "wifi sifresi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != "kutuphane2024" {
		t.Fatalf("expected reloaded answer got %q", resp.Answer)
	}
}

func TestServiceReloadKeepsPreviousMatcherOnFailure(t *testing.T) {
	source := &stubSource{entries: libraryEntries()}
	svc := newServiceUnderTest(t, source, newStubStore())

	source.entries = []Entry{{Questions: []string{"kitap"}}}
	_, err := svc.Reload(context.Background())
	if !apperrors.IsCode(err, apperrors.CodeCorpusInvalid) {
		t.Fatalf("expected corpus invalid got %v", err)
	}
	if !errors.Is(err, ErrMalformedEntry) {
		t.Fatalf("expected ErrMalformedEntry got %v", err)
	}

	source.err = errors.New("bucket missing")
	if _, err := svc.Reload(context.Background()); !apperrors.IsCode(err, apperrors.CodeSourceError) {
		t.Fatalf("expected source error got %v", err)
	}

	stats, ok := svc.Stats()
	if !ok || stats.Entries != 3 {
		t.Fatalf("expected the previous corpus to stay live, got %+v (loaded %v)", stats, ok)
	}
	resp, err := svc.Answer(context.Background(), Request{Question: "Açılış saati nedir?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Answer != openingAnswer {
		t.Fatalf("expected %q got %q", openingAnswer, resp.Answer)
	}
}

func TestServiceSourceLoadErrorIsCorpusInvalid(t *testing.T) {
	source := &stubSource{err: MalformedEntry(2, "answer is missing")}
	_, err := NewService(Config{}, source, NewNormalizer(testStopWords), newStubStore(), discardLogger())
	if !apperrors.IsCode(err, apperrors.CodeCorpusInvalid) {
		t.Fatalf("expected corpus invalid got %v", err)
	}
}

func TestNewServiceFailsFastOnEmptyCorpus(t *testing.T) {
	_, err := NewService(Config{}, &stubSource{}, NewNormalizer(testStopWords), newStubStore(), discardLogger())
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus got %v", err)
	}
}

func TestServiceConcurrentAnswersDuringReload(t *testing.T) {
	source := &stubSource{entries: libraryEntries()}
	svc := newServiceUnderTest(t, source, newStubStore())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				resp, err := svc.Answer(context.Background(), Request{Question: "Açılış saati nedir?"})
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if resp.Answer != openingAnswer {
					t.Errorf("expected %q got %q", openingAnswer, resp.Answer)
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		if _, err := svc.Reload(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	wg.Wait()
}

func TestServiceWelcome(t *testing.T) {
	svc := newServiceUnderTest(t, &stubSource{entries: libraryEntries()}, newStubStore())
	if got := svc.Welcome(); got != DefaultWelcomeMessage {
		t.Fatalf("expected %q got %q", DefaultWelcomeMessage, got)
	}
}

func newServiceUnderTest(t *testing.T, source *stubSource, store *stubStore) Service {
	t.Helper()
	cfg := Config{TopRecommendations: 5, UnansweredLimit: 5}
	svc, err := NewService(cfg, source, NewNormalizer(testStopWords), store, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.(*service).now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubSource struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (s *stubSource) Load(context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func (s *stubSource) Describe() string {
	return "stub"
}

type stubStore struct {
	mu         sync.Mutex
	err        error
	trending   map[string]int64
	unanswered map[string]int64
}

func newStubStore() *stubStore {
	return &stubStore{trending: map[string]int64{}, unanswered: map[string]int64{}}
}

func (s *stubStore) IncrementQuery(_ context.Context, canonical, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.trending[canonical]++
	return nil
}

func (s *stubStore) TopQueries(context.Context, int) ([]TrendingQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]TrendingQuery, 0, len(s.trending))
	for q, c := range s.trending {
		out = append(out, TrendingQuery{Query: q, Count: c})
	}
	return out, nil
}

func (s *stubStore) RecordUnanswered(_ context.Context, canonical, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.unanswered[canonical]++
	return nil
}

func (s *stubStore) TopUnanswered(context.Context, int) ([]UnansweredQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]UnansweredQuery, 0, len(s.unanswered))
	for q, c := range s.unanswered {
		out = append(out, UnansweredQuery{Query: q, Count: c})
	}
	return out, nil
}
