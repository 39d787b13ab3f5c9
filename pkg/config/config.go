// ABOUTME: Configuration management for the report job with environment variable support
// ABOUTME: Defines output, sentiment, feed, synthesis and logging settings plus the feed catalog

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"market-radar/core/domain"
	apperrors "market-radar/core/errors"
	"market-radar/pkg/utils/duration"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Synthesis providers
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all application configuration
type Config struct {
	// Output controls where and how the page is written
	Output OutputConfig

	// Sentiment configures the fear & greed index fetch
	Sentiment SentimentConfig

	// Feeds configures the discussion feed aggregation
	Feeds FeedsConfig

	// Synthesis configures the generative model call
	Synthesis SynthesisConfig

	// Log configures the structured logger
	Log LogConfig
}

// OutputConfig holds page output configuration
type OutputConfig struct {
	// Path is the file overwritten on every run
	Path string

	// Timezone is the IANA zone used for the report date and timestamp
	Timezone string
}

// SentimentConfig holds sentiment index configuration
type SentimentConfig struct {
	URL     string
	Referer string
	Timeout time.Duration
}

// FeedsConfig holds feed aggregation configuration
type FeedsConfig struct {
	// Sources is the ordered feed catalog
	Sources []domain.FeedSource

	// File optionally replaces Sources with a YAML catalog
	File string

	// EntriesPerSource is N, the number of leading entries taken per feed
	EntriesPerSource int

	// ExcerptRunes bounds each entry's summary excerpt
	ExcerptRunes int

	Timeout time.Duration
	Retries int

	// RatePerSecond spaces successive feed requests
	RatePerSecond float64
}

// SynthesisConfig holds generative model configuration
type SynthesisConfig struct {
	// Provider is one of gemini, openai, anthropic
	Provider string

	// Model overrides the provider's default model when set
	Model string

	// APIKeys holds the credential per provider, read once at startup
	APIKeys map[string]string

	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// APIKey returns the credential for the configured provider
func (s SynthesisConfig) APIKey() string {
	return s.APIKeys[s.Provider]
}

// DefaultFeeds is the catalog used when no feeds file is configured
func DefaultFeeds() []domain.FeedSource {
	return []domain.FeedSource{
		{Label: "WSB(散户情绪)", URL: "https://www.reddit.com/r/wallstreetbets/.rss"},
		{Label: "Stocks(主流个股)", URL: "https://www.reddit.com/r/stocks/.rss"},
		{Label: "Options(期权异动)", URL: "https://www.reddit.com/r/options/.rss"},
		{Label: "Investing(长线逻辑)", URL: "https://www.reddit.com/r/investing/.rss"},
		{Label: "StockMarket(大盘情绪)", URL: "https://www.reddit.com/r/StockMarket/.rss"},
		{Label: "SecurityAnalysis(基本面)", URL: "https://www.reddit.com/r/SecurityAnalysis/.rss"},
		{Label: "ValueInvesting(价值投资)", URL: "https://www.reddit.com/r/ValueInvesting/.rss"},
	}
}

// LoadDotEnv loads variables from an env file if it exists.
// Variables already present in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Output: OutputConfig{
			Path:     getEnvOrDefault("OUTPUT_PATH", "index.html"),
			Timezone: getEnvOrDefault("REPORT_TIMEZONE", "Asia/Shanghai"),
		},
		Sentiment: SentimentConfig{
			URL:     getEnvOrDefault("SENTIMENT_URL", "https://production.dataviz.cnn.io/index/fearandgreed/graphdata"),
			Referer: getEnvOrDefault("SENTIMENT_REFERER", "https://edition.cnn.com/"),
			Timeout: getEnvAsDurationOrDefault("SENTIMENT_TIMEOUT", 10*time.Second),
		},
		Feeds: FeedsConfig{
			Sources:          DefaultFeeds(),
			File:             getEnvOrDefault("FEEDS_FILE", ""),
			EntriesPerSource: getEnvAsIntOrDefault("FEED_ENTRIES_PER_SOURCE", 25),
			ExcerptRunes:     getEnvAsIntOrDefault("FEED_EXCERPT_RUNES", 140),
			Timeout:          getEnvAsDurationOrDefault("FEED_TIMEOUT", 20*time.Second),
			Retries:          getEnvAsIntOrDefault("FEED_RETRIES", 1),
			RatePerSecond:    getEnvAsFloatOrDefault("FEED_RATE_PER_SECOND", 1),
		},
		Synthesis: SynthesisConfig{
			Provider: strings.ToLower(getEnvOrDefault("SYNTHESIS_PROVIDER", ProviderGemini)),
			Model:    getEnvOrDefault("SYNTHESIS_MODEL", ""),
			APIKeys: map[string]string{
				ProviderGemini:    os.Getenv("GEMINI_API_KEY"),
				ProviderOpenAI:    os.Getenv("OPENAI_API_KEY"),
				ProviderAnthropic: os.Getenv("ANTHROPIC_API_KEY"),
			},
			Timeout: getEnvAsDurationOrDefault("SYNTHESIS_TIMEOUT", 120*time.Second),
			Retries: getEnvAsIntOrDefault("SYNTHESIS_RETRIES", 1),
			Backoff: getEnvAsDurationOrDefault("SYNTHESIS_BACKOFF", 2*time.Second),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	if cfg.Feeds.File != "" {
		sources, err := LoadFeedsFile(cfg.Feeds.File)
		if err != nil {
			return nil, err
		}
		cfg.Feeds.Sources = sources
	}

	return cfg, nil
}

// feedsFile is the YAML shape of a feed catalog
type feedsFile struct {
	Feeds []domain.FeedSource `yaml:"feeds"`
}

// LoadFeedsFile reads an ordered feed catalog from YAML:
//
//	feeds:
//	  - label: WSB
//	    url: https://www.reddit.com/r/wallstreetbets/.rss
func LoadFeedsFile(path string) ([]domain.FeedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}
	if len(f.Feeds) == 0 {
		return nil, &apperrors.ValidationError{Field: "FEEDS_FILE", Message: "no feeds defined"}
	}
	return f.Feeds, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("90s"), bare seconds ("90") or clock form ("01:30")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	return duration.OrDefault(os.Getenv(key), defaultValue)
}

// Validate checks if the configuration is valid for fetching and rendering
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		return &apperrors.ValidationError{Field: "OUTPUT_PATH", Message: "cannot be empty"}
	}

	if _, err := time.LoadLocation(c.Output.Timezone); err != nil {
		return &apperrors.ValidationError{Field: "REPORT_TIMEZONE", Message: err.Error()}
	}

	if c.Sentiment.URL == "" {
		return &apperrors.ValidationError{Field: "SENTIMENT_URL", Message: "cannot be empty"}
	}

	if c.Sentiment.Timeout <= 0 {
		return &apperrors.ValidationError{Field: "SENTIMENT_TIMEOUT", Message: "must be positive"}
	}

	if len(c.Feeds.Sources) == 0 {
		return &apperrors.ValidationError{Field: "feeds", Message: "at least one feed is required"}
	}

	for i, src := range c.Feeds.Sources {
		if err := src.Validate(); err != nil {
			return &apperrors.ValidationError{Field: fmt.Sprintf("feeds[%d]", i), Message: err.Error()}
		}
	}

	if c.Feeds.EntriesPerSource < 1 || c.Feeds.EntriesPerSource > 100 {
		return &apperrors.ValidationError{Field: "FEED_ENTRIES_PER_SOURCE", Message: "must be between 1 and 100"}
	}

	if c.Feeds.ExcerptRunes < 0 {
		return &apperrors.ValidationError{Field: "FEED_EXCERPT_RUNES", Message: "cannot be negative"}
	}

	if c.Feeds.Timeout <= 0 {
		return &apperrors.ValidationError{Field: "FEED_TIMEOUT", Message: "must be positive"}
	}

	if c.Feeds.Retries < 0 || c.Feeds.Retries > 5 {
		return &apperrors.ValidationError{Field: "FEED_RETRIES", Message: "must be between 0 and 5"}
	}

	if c.Feeds.RatePerSecond <= 0 {
		return &apperrors.ValidationError{Field: "FEED_RATE_PER_SECOND", Message: "must be positive"}
	}

	switch c.Synthesis.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		return &apperrors.ValidationError{Field: "SYNTHESIS_PROVIDER", Message: "must be 'gemini', 'openai' or 'anthropic'"}
	}

	if c.Synthesis.Timeout <= 0 {
		return &apperrors.ValidationError{Field: "SYNTHESIS_TIMEOUT", Message: "must be positive"}
	}

	if c.Synthesis.Retries < 0 || c.Synthesis.Retries > 5 {
		return &apperrors.ValidationError{Field: "SYNTHESIS_RETRIES", Message: "must be between 0 and 5"}
	}

	return nil
}

// ValidateSynthesis checks that a synthesis call can be made
func (c *Config) ValidateSynthesis() error {
	if c.Synthesis.APIKey() == "" {
		return &apperrors.ValidationError{
			Field:   strings.ToUpper(c.Synthesis.Provider) + "_API_KEY",
			Message: "credential is required to synthesize the report",
		}
	}
	return nil
}
