// Package config handles configuration loading for newspulse.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. NEWSPULSE_SOURCES_DAYS.
const EnvPrefix = "NEWSPULSE"

// Sentiment model names.
const (
	ModelLexicon = "lexicon"
	ModelGemini  = "gemini"
)

// Config represents the complete application configuration.
type Config struct {
	Sources   SourcesConfig   `mapstructure:"sources"   yaml:"sources"`
	Tickers   TickersConfig   `mapstructure:"tickers"   yaml:"tickers"`
	Output    OutputConfig    `mapstructure:"output"    yaml:"output"`
	Sentiment SentimentConfig `mapstructure:"sentiment" yaml:"sentiment"`
	Scraper   ScraperConfig   `mapstructure:"scraper"   yaml:"scraper"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// SourcesConfig selects the news sources and the lookback window.
type SourcesConfig struct {
	Names []string `mapstructure:"names" yaml:"names"` // "yahoo", "marketwatch", "cnbc", "reuters"
	Days  int      `mapstructure:"days"  yaml:"days"`
}

// TickersConfig locates the ticker universe.
type TickersConfig struct {
	File string `mapstructure:"file" yaml:"file"`
	NER  string `mapstructure:"ner"  yaml:"ner"` // "heuristic" or "none"
}

// OutputConfig controls the report file.
type OutputConfig struct {
	Path   string `mapstructure:"path"   yaml:"path"`
	Format string `mapstructure:"format" yaml:"format"` // empty infers from the extension
}

// SentimentConfig holds scorer settings.
type SentimentConfig struct {
	Model       string  `mapstructure:"model"        yaml:"model"` // "lexicon" or "gemini"
	Blend       bool    `mapstructure:"blend"        yaml:"blend"`
	ChunkSize   int     `mapstructure:"chunk_size"   yaml:"chunk_size"`
	Workers     int     `mapstructure:"workers"      yaml:"workers"`
	GeminiKey   string  `mapstructure:"gemini_key"   yaml:"gemini_key"`
	GeminiModel string  `mapstructure:"gemini_model" yaml:"gemini_model"`
	Temperature float64 `mapstructure:"temperature"  yaml:"temperature"`
	TimeoutSec  int     `mapstructure:"timeout_sec"  yaml:"timeout_sec"`
}

// ScraperConfig holds HTTP settings shared by all sources.
type ScraperConfig struct {
	TimeoutSec         int     `mapstructure:"timeout_sec"           yaml:"timeout_sec"`
	RatePerSec         float64 `mapstructure:"rate_per_sec"          yaml:"rate_per_sec"`
	Burst              int     `mapstructure:"burst"                 yaml:"burst"`
	UserAgent          string  `mapstructure:"user_agent"            yaml:"user_agent"`
	ContentCacheTTLSec int     `mapstructure:"content_cache_ttl_sec" yaml:"content_cache_ttl_sec"`
}

// Timeout returns the HTTP timeout.
func (s ScraperConfig) Timeout() time.Duration { return time.Duration(s.TimeoutSec) * time.Second }

// ContentCacheTTL returns how long extracted article text is kept.
func (s ScraperConfig) ContentCacheTTL() time.Duration {
	return time.Duration(s.ContentCacheTTLSec) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string   `mapstructure:"level"    yaml:"level"`   // "debug", "info", "warn", "error"
	Outputs []string `mapstructure:"outputs"  yaml:"outputs"` // "console", "file"
	FileDir string   `mapstructure:"file_dir" yaml:"file_dir"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.newspulse/config.yaml (home directory)
//  3. /etc/newspulse/config.yaml (system)
//
// Environment variables override config file values.
// Format: NEWSPULSE_<SECTION>_<KEY>, e.g., NEWSPULSE_SENTIMENT_GEMINI_KEY
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".newspulse"))
	v.AddConfigPath("/etc/newspulse")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// Default returns the built-in configuration without reading files or
// the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Sources
	v.SetDefault("sources.names", []string{"yahoo", "marketwatch", "reuters"})
	v.SetDefault("sources.days", 1)

	// Tickers
	v.SetDefault("tickers.file", "data/tickers.csv")
	v.SetDefault("tickers.ner", "heuristic")

	// Output
	v.SetDefault("output.path", "data/output/results.csv")
	v.SetDefault("output.format", "")

	// Sentiment
	v.SetDefault("sentiment.model", ModelLexicon)
	v.SetDefault("sentiment.blend", true)
	v.SetDefault("sentiment.chunk_size", 512)
	v.SetDefault("sentiment.workers", 4)
	v.SetDefault("sentiment.gemini_model", "gemini-2.0-flash")
	v.SetDefault("sentiment.temperature", 0.0)
	v.SetDefault("sentiment.timeout_sec", 30)

	// Scraper
	v.SetDefault("scraper.timeout_sec", 30)
	v.SetDefault("scraper.rate_per_sec", 2.0)
	v.SetDefault("scraper.burst", 2)
	v.SetDefault("scraper.user_agent", "")
	v.SetDefault("scraper.content_cache_ttl_sec", 600) // 10 minutes

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.outputs", []string{"console", "file"})
	v.SetDefault("logging.file_dir", "logs")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv(EnvPrefix + "_SENTIMENT_GEMINI_KEY"); key != "" {
		cfg.Sentiment.GeminiKey = key
	}
}

// Validate rejects settings no run can use.
func (c *Config) Validate() error {
	var errs []error
	if c.Sources.Days < 1 {
		errs = append(errs, fmt.Errorf("sources.days must be >= 1, got %d", c.Sources.Days))
	}
	if len(c.Sources.Names) == 0 {
		errs = append(errs, errors.New("sources.names must list at least one source"))
	}
	if strings.TrimSpace(c.Tickers.File) == "" {
		errs = append(errs, errors.New("tickers.file is required"))
	}
	switch c.Tickers.NER {
	case "heuristic", "none":
	default:
		errs = append(errs, fmt.Errorf("tickers.ner must be heuristic or none, got %q", c.Tickers.NER))
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, errors.New("output.path is required"))
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "csv", "json", "html", "htm", "sqlite", "sqlite3", "db":
	default:
		errs = append(errs, fmt.Errorf("output.format %q is not supported", c.Output.Format))
	}
	switch c.Sentiment.Model {
	case ModelLexicon, ModelGemini:
	default:
		errs = append(errs, fmt.Errorf("sentiment.model must be %s or %s, got %q", ModelLexicon, ModelGemini, c.Sentiment.Model))
	}
	if c.Sentiment.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("sentiment.chunk_size must be >= 1, got %d", c.Sentiment.ChunkSize))
	}
	if c.Sentiment.Workers < 1 {
		errs = append(errs, fmt.Errorf("sentiment.workers must be >= 1, got %d", c.Sentiment.Workers))
	}
	if c.Scraper.RatePerSec < 0 {
		errs = append(errs, fmt.Errorf("scraper.rate_per_sec must be >= 0, got %v", c.Scraper.RatePerSec))
	}
	for _, out := range c.Logging.Outputs {
		if out != "console" && out != "file" {
			errs = append(errs, fmt.Errorf("logging.outputs: unknown output %q", out))
		}
	}
	return errors.Join(errs...)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
