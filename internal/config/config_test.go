package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	t.Setenv("NEWSPULSE_SENTIMENT_GEMINI_KEY", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if got := strings.Join(cfg.Sources.Names, ","); got != "yahoo,marketwatch,reuters" {
		t.Errorf("Sources.Names: got %q, want %q", got, "yahoo,marketwatch,reuters")
	}
	if cfg.Sources.Days != 1 {
		t.Errorf("Sources.Days: got %d, want 1", cfg.Sources.Days)
	}
	if cfg.Tickers.File != "data/tickers.csv" {
		t.Errorf("Tickers.File: got %q", cfg.Tickers.File)
	}
	if cfg.Tickers.NER != "heuristic" {
		t.Errorf("Tickers.NER: got %q", cfg.Tickers.NER)
	}
	if cfg.Output.Path != "data/output/results.csv" {
		t.Errorf("Output.Path: got %q", cfg.Output.Path)
	}
	if cfg.Output.Format != "" {
		t.Errorf("Output.Format: got %q, want empty", cfg.Output.Format)
	}

	// Sentiment defaults
	if cfg.Sentiment.Model != ModelLexicon {
		t.Errorf("Sentiment.Model: got %q, want %q", cfg.Sentiment.Model, ModelLexicon)
	}
	if !cfg.Sentiment.Blend {
		t.Error("Sentiment.Blend: got false, want true")
	}
	if cfg.Sentiment.ChunkSize != 512 {
		t.Errorf("Sentiment.ChunkSize: got %d, want 512", cfg.Sentiment.ChunkSize)
	}
	if cfg.Sentiment.Workers != 4 {
		t.Errorf("Sentiment.Workers: got %d, want 4", cfg.Sentiment.Workers)
	}

	// Scraper defaults
	if cfg.Scraper.Timeout() != 30*time.Second {
		t.Errorf("Scraper.Timeout: got %v, want 30s", cfg.Scraper.Timeout())
	}
	if cfg.Scraper.RatePerSec != 2 {
		t.Errorf("Scraper.RatePerSec: got %v, want 2", cfg.Scraper.RatePerSec)
	}
	if cfg.Scraper.Burst != 2 {
		t.Errorf("Scraper.Burst: got %d, want 2", cfg.Scraper.Burst)
	}
	if cfg.Scraper.ContentCacheTTL() != 10*time.Minute {
		t.Errorf("Scraper.ContentCacheTTL: got %v, want 10m", cfg.Scraper.ContentCacheTTL())
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if len(cfg.Logging.Outputs) != 2 {
		t.Errorf("Logging.Outputs: got %v", cfg.Logging.Outputs)
	}
	if cfg.Logging.FileDir != "logs" {
		t.Errorf("Logging.FileDir: got %q", cfg.Logging.FileDir)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestDefaultMatchesLoad(t *testing.T) {
	cfg := Default()
	if cfg.Sources.Days != 1 || cfg.Sentiment.ChunkSize != 512 || !cfg.Sentiment.Blend {
		t.Errorf("Default() = %+v", cfg)
	}
}

// ── LoadFromFile ──

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
sources:
  names: [cnbc, reuters]
  days: 3
tickers:
  file: /srv/universe.csv
output:
  path: out/report.json
sentiment:
  model: gemini
  blend: false
  gemini_key: file-key-123456
scraper:
  rate_per_sec: 0.5
logging:
  level: debug
  outputs: [console]
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEWSPULSE_SENTIMENT_GEMINI_KEY", "")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if got := strings.Join(cfg.Sources.Names, ","); got != "cnbc,reuters" {
		t.Errorf("Sources.Names: got %q", got)
	}
	if cfg.Sources.Days != 3 {
		t.Errorf("Sources.Days: got %d, want 3", cfg.Sources.Days)
	}
	if cfg.Tickers.File != "/srv/universe.csv" {
		t.Errorf("Tickers.File: got %q", cfg.Tickers.File)
	}
	if cfg.Sentiment.Model != ModelGemini {
		t.Errorf("Sentiment.Model: got %q", cfg.Sentiment.Model)
	}
	if cfg.Sentiment.Blend {
		t.Error("Sentiment.Blend: got true, want false")
	}
	if cfg.Sentiment.GeminiKey != "file-key-123456" {
		t.Errorf("Sentiment.GeminiKey: got %q", cfg.Sentiment.GeminiKey)
	}
	if cfg.Scraper.RatePerSec != 0.5 {
		t.Errorf("Scraper.RatePerSec: got %v", cfg.Scraper.RatePerSec)
	}
	// Unset values keep their defaults.
	if cfg.Sentiment.ChunkSize != 512 {
		t.Errorf("Sentiment.ChunkSize: got %d, want 512", cfg.Sentiment.ChunkSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q", cfg.Logging.Level)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sources: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadSearchesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte("sources:\n  days: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sources.Days != 7 {
		t.Errorf("Sources.Days: got %d, want 7", cfg.Sources.Days)
	}
}

// ── Environment overrides ──

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NEWSPULSE_SOURCES_DAYS", "5")
	t.Setenv("NEWSPULSE_SENTIMENT_MODEL", "gemini")
	t.Setenv("NEWSPULSE_SENTIMENT_GEMINI_KEY", "env-key-abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sources.Days != 5 {
		t.Errorf("Sources.Days: got %d, want 5", cfg.Sources.Days)
	}
	if cfg.Sentiment.Model != ModelGemini {
		t.Errorf("Sentiment.Model: got %q", cfg.Sentiment.Model)
	}
	if cfg.Sentiment.GeminiKey != "env-key-abcdef" {
		t.Errorf("Sentiment.GeminiKey: got %q", cfg.Sentiment.GeminiKey)
	}
}

func TestEnvOverridesFileKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sentiment:\n  gemini_key: from-file-0000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEWSPULSE_SENTIMENT_GEMINI_KEY", "from-env-1111")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sentiment.GeminiKey != "from-env-1111" {
		t.Errorf("got %q, want env key", cfg.Sentiment.GeminiKey)
	}
}

// ── Validate ──

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero days", func(c *Config) { c.Sources.Days = 0 }, "sources.days"},
		{"no sources", func(c *Config) { c.Sources.Names = nil }, "sources.names"},
		{"empty tickers file", func(c *Config) { c.Tickers.File = " " }, "tickers.file"},
		{"bad ner", func(c *Config) { c.Tickers.NER = "spacy" }, "tickers.ner"},
		{"empty output", func(c *Config) { c.Output.Path = "" }, "output.path"},
		{"bad format", func(c *Config) { c.Output.Format = "pdf" }, "output.format"},
		{"format alias", func(c *Config) { c.Output.Format = "SQLite3" }, ""},
		{"bad model", func(c *Config) { c.Sentiment.Model = "finbert" }, "sentiment.model"},
		{"zero chunk", func(c *Config) { c.Sentiment.ChunkSize = 0 }, "sentiment.chunk_size"},
		{"zero workers", func(c *Config) { c.Sentiment.Workers = 0 }, "sentiment.workers"},
		{"negative rate", func(c *Config) { c.Scraper.RatePerSec = -1 }, "scraper.rate_per_sec"},
		{"bad log output", func(c *Config) { c.Logging.Outputs = []string{"syslog"} }, "logging.outputs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("got %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Sources.Days = 0
	cfg.Sentiment.ChunkSize = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"sources.days", "sentiment.chunk_size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

// ── Keys ──

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "***"},
		{"short", "***"},
		{"12345678", "***"},
		{"AIzaSyExample123", "AIz...123"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckAPIKeys(t *testing.T) {
	t.Setenv("NEWSPULSE_SENTIMENT_GEMINI_KEY", "")
	cfg := Default()

	keys := CheckAPIKeys(cfg)
	if len(keys) != 1 {
		t.Fatalf("got %d keys, want 1", len(keys))
	}
	if keys[0].IsSet || keys[0].Source != KeySourceNone {
		t.Errorf("unset key: got %+v", keys[0])
	}

	cfg.Sentiment.GeminiKey = "config-key-987654"
	keys = CheckAPIKeys(cfg)
	if !keys[0].IsSet || keys[0].Source != KeySourceConfig {
		t.Errorf("config key: got %+v", keys[0])
	}
	if keys[0].Masked != "con...654" {
		t.Errorf("Masked: got %q", keys[0].Masked)
	}

	t.Setenv("NEWSPULSE_SENTIMENT_GEMINI_KEY", "config-key-987654")
	keys = CheckAPIKeys(cfg)
	if keys[0].Source != KeySourceEnv {
		t.Errorf("env key: got source %q, want env", keys[0].Source)
	}
}
