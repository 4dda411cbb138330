package model

import "time"

// Config holds the full runtime configuration.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Dedupe    DedupeConfig    `mapstructure:"dedupe"`
	Validate  ValidateConfig  `mapstructure:"validate"`
	Store     StoreConfig     `mapstructure:"store"`
	Media     MediaConfig     `mapstructure:"media"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Verbose   bool            `mapstructure:"verbose"`
}

// LLMConfig configures the generative/translation provider.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"` // "deepseek" or "openai"
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Timeout     int     `mapstructure:"timeout"` // seconds, per API call
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`

	// RequestsPerSecond paces outbound completion calls; burst allows
	// the per-field translation fan-out to proceed without queuing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// RetryConfig bounds the generation retry loop.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"` // doubled per attempt
}

// DedupeConfig holds the near-duplicate thresholds.
type DedupeConfig struct {
	TitleThreshold   float64 `mapstructure:"title_threshold"`
	ContentThreshold float64 `mapstructure:"content_threshold"`
	KeywordThreshold float64 `mapstructure:"keyword_threshold"`
}

// ValidateConfig holds validation policy knobs. The hard schema invariants
// (field presence, wtfScore range, non-blank strings) are not configurable;
// MinContentLen is the optional stricter length policy (0 disables it).
type ValidateConfig struct {
	MinContentLen int `mapstructure:"min_content_len"`
	MaxContentLen int `mapstructure:"max_content_len"`
}

// StoreConfig selects and locates the corpus store.
type StoreConfig struct {
	Path        string        `mapstructure:"path"` // SQLite file; empty means in-memory
	KeyCacheTTL time.Duration `mapstructure:"key_cache_ttl"`
}

// MediaConfig configures the related-media lookup.
type MediaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	SearchEngineID string `mapstructure:"search_engine_id"`
}

// SchedulerConfig drives the auto-generation loop.
type SchedulerConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Concurrency int           `mapstructure:"concurrency"`
}

// DefaultConfig returns sensible defaults matching the production deployment.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "deepseek",
			Model:             "deepseek-chat",
			BaseURL:           "https://api.deepseek.com/v1",
			Timeout:           30,
			MaxTokens:         1200,
			Temperature:       0.8,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
		},
		Dedupe: DedupeConfig{
			TitleThreshold:   0.85,
			ContentThreshold: 0.80,
			KeywordThreshold: 0.70,
		},
		Validate: ValidateConfig{
			MinContentLen: 0,
			MaxContentLen: 1000,
		},
		Store: StoreConfig{
			Path:        "",
			KeyCacheTTL: 5 * time.Minute,
		},
		Media: MediaConfig{
			Enabled: false,
		},
		Scheduler: SchedulerConfig{
			Interval:    time.Hour,
			Concurrency: 1,
		},
	}
}
