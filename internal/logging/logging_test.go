package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFilePathCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	path, err := FilePath(dir, ts)
	if err != nil {
		t.Fatalf("FilePath() error: %v", err)
	}
	if got, want := filepath.Base(path), "newspulse_20240305_140709.log"; got != want {
		t.Errorf("file name: got %q, want %q", got, want)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected %s to be created", dir)
	}
}

func TestNewRejectsUnknownOutput(t *testing.T) {
	_, err := New(Config{Level: "info", Outputs: []string{"syslog"}})
	if err == nil {
		t.Fatal("expected error for unknown output")
	}
	if !strings.Contains(err.Error(), "syslog") {
		t.Errorf("error should name the output, got %v", err)
	}
}

func TestNewConsoleLogger(t *testing.T) {
	l, err := New(Config{Level: "debug", Outputs: []string{"console"}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if l == nil {
		t.Fatal("expected logger")
	}
}

func TestNewSilent(t *testing.T) {
	l := NewSilent()
	if l == nil {
		t.Fatal("expected logger")
	}
	l.Info().Str("k", "v").Msg("discarded")
}
