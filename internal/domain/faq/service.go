package faq

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/faqbot/pkg/errors"
	"github.com/yanqian/faqbot/pkg/util"
)

// Service exposes the FAQ bot capabilities.
type Service interface {
	Answer(ctx context.Context, req Request) (Response, error)
	Trending(ctx context.Context) ([]TrendingQuery, error)
	Unanswered(ctx context.Context) ([]UnansweredQuery, error)
	Reload(ctx context.Context) (ReloadResult, error)
	Welcome() string
	Stats() (CorpusStats, bool)
}

type service struct {
	cfg        Config
	source     Source
	normalizer *Normalizer
	store      Store
	index      *Index
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the FAQ domain and builds the first matcher.
// A corpus that cannot be loaded is fatal.
func NewService(cfg Config, source Source, normalizer *Normalizer, store Store, logger *slog.Logger) (Service, error) {
	svc := &service{
		cfg:        cfg,
		source:     source,
		normalizer: normalizer,
		store:      store,
		index:      &Index{},
		logger:     logger.With("component", "faq.service"),
		now:        util.NowUTC,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *service) Answer(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	matcher := s.index.Matcher()
	if matcher == nil {
		return Response{}, apperrors.Wrap(apperrors.CodeFAQError, "faq corpus not loaded", ErrNotLoaded)
	}

	match := matcher.Match(req.Question)
	resp := Response{
		Question: req.Question,
		Answer:   match.Answer,
		Matched:  match.Matched,
		Score:    match.Score,
		Source:   SourceFallback,
	}
	if match.Matched {
		resp.Source = SourceCorpus
		resp.MatchedQuestion = match.Question
	}

	s.record(ctx, match, req.Question)

	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		s.logger.Warn("faq trending fetch failed", "error", err)
		recs = nil
	}
	resp.Recommendations = recs
	resp.DurationMs = time.Since(start).Milliseconds()

	s.logger.Debug("faq answered", "matched", match.Matched, "score", match.Score, "index", match.Index)
	return resp, nil
}

// record counts the query; empty normalized queries carry nothing worth keeping.
func (s *service) record(ctx context.Context, match Match, display string) {
	if match.Normalized == "" {
		return
	}
	if match.Matched {
		if err := s.store.IncrementQuery(ctx, match.Normalized, display); err != nil {
			s.logger.Warn("faq trending increment failed", "error", err)
		}
		return
	}
	if err := s.store.RecordUnanswered(ctx, match.Normalized, display); err != nil {
		s.logger.Warn("faq unanswered record failed", "error", err)
	}
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFAQError, "failed to load trending queries", err)
	}
	return recs, nil
}

func (s *service) Unanswered(ctx context.Context) ([]UnansweredQuery, error) {
	items, err := s.store.TopUnanswered(ctx, s.cfg.UnansweredLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFAQError, "failed to load unanswered queries", err)
	}
	return items, nil
}

// Reload rebuilds the matcher from the source and swaps it in. On failure the
// previous matcher keeps serving.
func (s *service) Reload(ctx context.Context) (ReloadResult, error) {
	start := time.Now()
	entries, err := s.source.Load(ctx)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return ReloadResult{}, apperrors.Wrap(apperrors.CodeCorpusInvalid, "faq corpus rejected", err)
		}
		return ReloadResult{}, apperrors.Wrap(apperrors.CodeSourceError, "failed to load faq corpus", err)
	}
	matcher, err := BuildMatcher(entries, s.normalizer, s.cfg.matcherOptions())
	if err != nil {
		return ReloadResult{}, apperrors.Wrap(apperrors.CodeCorpusInvalid, "faq corpus rejected", err)
	}
	stats := s.index.Swap(matcher, s.source.Describe(), s.now())
	result := ReloadResult{Stats: stats, DurationMs: time.Since(start).Milliseconds()}
	s.logger.Info("faq corpus loaded",
		"source", stats.Source,
		"entries", stats.Entries,
		"questions", stats.Questions,
		"vocabulary", stats.Vocabulary,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

func (s *service) Welcome() string {
	return s.cfg.welcome()
}

func (s *service) Stats() (CorpusStats, bool) {
	return s.index.Stats()
}
