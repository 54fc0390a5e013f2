package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "configs/config.yaml"

// Source kinds understood by the FAQ corpus loader.
const (
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP HTTPConfig `yaml:"http"`
	FAQ  FAQConfig  `yaml:"faq"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
	CORS         CORSConfig      `yaml:"cors"`
	Admin        AdminConfig     `yaml:"admin"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures retries of the listed POST routes on transient upstream failures.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Paths       []string      `yaml:"paths"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// AdminConfig protects operator endpoints. An empty secret leaves them open.
type AdminConfig struct {
	TokenSecret string `yaml:"tokenSecret"`
}

// FAQConfig controls matching and where the corpus comes from.
// FoldStopwords also drops the ASCII-folded spelling of each stop word,
// so "icin" goes along with "için"; it is off unless asked for.
type FAQConfig struct {
	Threshold          float64      `yaml:"threshold"`
	FallbackMessage    string       `yaml:"fallbackMessage"`
	WelcomeMessage     string       `yaml:"welcomeMessage"`
	TopRecommendations int          `yaml:"topRecommendations"`
	UnansweredLimit    int          `yaml:"unansweredLimit"`
	Language           string       `yaml:"language"`
	StopwordsFile      string       `yaml:"stopwordsFile"`
	FoldStopwords      bool         `yaml:"foldStopwords"`
	Source             SourceConfig `yaml:"source"`
	Watch              WatchConfig  `yaml:"watch"`
	Redis              RedisConfig  `yaml:"redis"`
}

// SourceConfig selects the corpus backend.
type SourceConfig struct {
	Kind     string         `yaml:"kind"`
	Path     string         `yaml:"path"`
	Object   ObjectConfig   `yaml:"object"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// ObjectConfig locates the corpus in S3-compatible storage.
type ObjectConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// WatchConfig enables hot reload of a file corpus.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// RedisConfig contains connection information for the statistics store.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// Load reads configuration from CONFIG_PATH or configs/config.yaml, then the environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit file taking precedence over CONFIG_PATH.
func LoadFrom(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat(defaultConfigPath); err == nil {
		if err := hydrateFromFile(cfg, defaultConfigPath); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ADMIN_TOKEN_SECRET"); v != "" {
		cfg.HTTP.Admin.TokenSecret = v
	}
	if v := os.Getenv("FAQ_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.Threshold = parsed
		}
	}
	if v := os.Getenv("FAQ_FALLBACK_MESSAGE"); v != "" {
		cfg.FAQ.FallbackMessage = v
	}
	if v := os.Getenv("FAQ_WELCOME_MESSAGE"); v != "" {
		cfg.FAQ.WelcomeMessage = v
	}
	if v := os.Getenv("FAQ_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("FAQ_LANGUAGE"); v != "" {
		cfg.FAQ.Language = v
	}
	if v := os.Getenv("FAQ_STOPWORDS_FILE"); v != "" {
		cfg.FAQ.StopwordsFile = v
	}
	if v := os.Getenv("FAQ_FOLD_STOPWORDS"); v != "" {
		cfg.FAQ.FoldStopwords = parseBool(v)
	}
	if v := os.Getenv("FAQ_SOURCE_KIND"); v != "" {
		cfg.FAQ.Source.Kind = strings.ToLower(v)
	}
	if v := os.Getenv("FAQ_SOURCE_PATH"); v != "" {
		cfg.FAQ.Source.Path = v
	}
	if v := os.Getenv("FAQ_S3_ENDPOINT"); v != "" {
		cfg.FAQ.Source.Object.Endpoint = v
	}
	if v := os.Getenv("FAQ_S3_ACCESS_KEY"); v != "" {
		cfg.FAQ.Source.Object.AccessKey = v
	}
	if v := os.Getenv("FAQ_S3_SECRET_KEY"); v != "" {
		cfg.FAQ.Source.Object.SecretKey = v
	}
	if v := os.Getenv("FAQ_S3_BUCKET"); v != "" {
		cfg.FAQ.Source.Object.Bucket = v
	}
	if v := os.Getenv("FAQ_S3_KEY"); v != "" {
		cfg.FAQ.Source.Object.Key = v
	}
	if v := os.Getenv("FAQ_POSTGRES_DSN"); v != "" {
		cfg.FAQ.Source.Postgres.DSN = v
	}
	if v := os.Getenv("FAQ_WATCH_ENABLED"); v != "" {
		cfg.FAQ.Watch.Enabled = parseBool(v)
	}
	if v := os.Getenv("FAQ_REDIS_ENABLED"); v != "" {
		cfg.FAQ.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("FAQ_REDIS_ADDR"); v != "" {
		cfg.FAQ.Redis.Addr = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 200 * time.Millisecond,
				Paths: []string{
					"/api/v1/faq/reload",
				},
			},
		},
		FAQ: FAQConfig{
			Threshold:          0.3,
			FallbackMessage:    "Üzgünüm, bu konuda size yardımcı olamıyorum. Lütfen farklı bir şekilde ifade eder misiniz?",
			WelcomeMessage:     "Kütüphane Chatbot'una Hoş Geldiniz! Size nasıl yardımcı olabilirim?",
			TopRecommendations: 5,
			UnansweredLimit:    20,
			Language:           "tr",
			Source: SourceConfig{
				Kind: SourceFile,
				Path: "data/library_faqs.json",
				Postgres: PostgresConfig{
					MaxConns: 4,
				},
			},
			Watch: WatchConfig{
				Debounce: 500 * time.Millisecond,
			},
			Redis: RedisConfig{
				Prefix: "faq",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.FAQ.Threshold <= 0 || c.FAQ.Threshold >= 1 {
		return errors.New("faq.threshold must be between 0 and 1")
	}
	if strings.TrimSpace(c.FAQ.FallbackMessage) == "" {
		return errors.New("faq.fallbackMessage cannot be empty")
	}
	if c.FAQ.TopRecommendations < 0 {
		return errors.New("faq.topRecommendations cannot be negative")
	}
	if c.FAQ.UnansweredLimit < 0 {
		return errors.New("faq.unansweredLimit cannot be negative")
	}
	if err := c.FAQ.Source.validate(); err != nil {
		return err
	}
	if c.FAQ.Watch.Enabled && c.FAQ.Source.Kind != SourceFile {
		return errors.New("faq.watch requires a file source")
	}
	if c.FAQ.Redis.Enabled && strings.TrimSpace(c.FAQ.Redis.Addr) == "" {
		return errors.New("faq.redis.addr cannot be empty when redis store is enabled")
	}
	return nil
}

func (s SourceConfig) validate() error {
	switch s.Kind {
	case SourceFile:
		if strings.TrimSpace(s.Path) == "" {
			return errors.New("faq.source.path cannot be empty for a file source")
		}
	case SourceS3:
		if s.Object.Endpoint == "" || s.Object.Bucket == "" || s.Object.Key == "" {
			return errors.New("faq.source.object requires endpoint, bucket and key")
		}
	case SourcePostgres:
		if strings.TrimSpace(s.Postgres.DSN) == "" {
			return errors.New("faq.source.postgres.dsn cannot be empty")
		}
	default:
		return fmt.Errorf("faq.source.kind %q is not one of file, s3, postgres", s.Kind)
	}
	return nil
}
