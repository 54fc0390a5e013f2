package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faqbot/internal/domain/faq"
	"github.com/yanqian/faqbot/internal/infra/config"
	"github.com/yanqian/faqbot/internal/infra/faqsource"
	"github.com/yanqian/faqbot/internal/infra/faqstore"
	"github.com/yanqian/faqbot/internal/infra/stopwords"
)

// ProvideFAQConfig maps the file configuration onto the domain knobs.
func ProvideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		Threshold:          cfg.FAQ.Threshold,
		FallbackMessage:    cfg.FAQ.FallbackMessage,
		WelcomeMessage:     cfg.FAQ.WelcomeMessage,
		TopRecommendations: cfg.FAQ.TopRecommendations,
		UnansweredLimit:    cfg.FAQ.UnansweredLimit,
	}
}

// ProvideNormalizer loads the stop words. The list is used verbatim unless
// faq.foldStopwords is set, in which case each word is also folded the way
// queries are so "için" drops "icin" too.
func ProvideNormalizer(cfg *config.Config) (*faq.Normalizer, error) {
	var fold stopwords.Folder
	if cfg.FAQ.FoldStopwords {
		fold = func(word string) string { return faq.Normalize(word, nil) }
	}
	set, err := stopwords.Load(cfg.FAQ.Language, cfg.FAQ.StopwordsFile, fold)
	if err != nil {
		return nil, err
	}
	return faq.NewNormalizer(set), nil
}

// ProvideFAQSource opens the configured corpus backend. The returned cleanup
// releases whatever the backend holds open and is safe to call for every kind.
func ProvideFAQSource(cfg *config.Config, logger *slog.Logger) (faq.Source, func(), error) {
	src := cfg.FAQ.Source
	switch src.Kind {
	case config.SourceFile:
		return faqsource.NewFileSource(src.Path), func() {}, nil
	case config.SourceS3:
		source, err := faqsource.NewObjectSource(faqsource.ObjectConfig{
			Endpoint:  src.Object.Endpoint,
			AccessKey: src.Object.AccessKey,
			SecretKey: src.Object.SecretKey,
			Region:    src.Object.Region,
			Bucket:    src.Object.Bucket,
			Key:       src.Object.Key,
		})
		if err != nil {
			return nil, nil, err
		}
		return source, func() {}, nil
	case config.SourcePostgres:
		pool, err := newPostgresPool(src.Postgres)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("faq postgres source enabled")
		cleanup := func() {
			pool.Close()
			logger.Info("faq postgres pool closed")
		}
		return faqsource.NewPostgresSource(pool), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unsupported faq source kind %q", src.Kind)
	}
}

func newPostgresPool(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// ProvideFAQStore prefers Valkey and falls back to process memory. The
// returned cleanup closes the Valkey client when one was opened.
func ProvideFAQStore(cfg *config.Config, logger *slog.Logger) (faq.Store, func()) {
	if cfg.FAQ.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore(), func() {}
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore(), func() {}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("faq valkey store enabled", "addr", cfg.FAQ.Redis.Addr)
			return faqstore.NewValkeyStore(client, cfg.FAQ.Redis.Prefix), client.Close
		}
	}
	return faqstore.NewMemoryStore(), func() {}
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.FAQ.Redis.Addr, "://") {
		return valkey.ParseURL(cfg.FAQ.Redis.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.FAQ.Redis.Addr}}, nil
}

// ProvideRunners starts the corpus watcher when hot reload is enabled.
func ProvideRunners(cfg *config.Config, svc faq.Service, logger *slog.Logger) []Runner {
	if !cfg.FAQ.Watch.Enabled {
		return nil
	}
	return []Runner{
		faqsource.NewWatcher(cfg.FAQ.Source.Path, cfg.FAQ.Watch.Debounce, svc, logger),
	}
}
