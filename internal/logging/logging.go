// Package logging builds the arbor logger that is passed down to every
// newspulse component. There is no package-global logger: callers construct
// one with New and hand it to constructors explicitly.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

// Config controls where log output goes.
type Config struct {
	Level   string   // "debug", "info", "warn", "error"
	Outputs []string // any of "console", "file"
	FileDir string   // directory for timestamped log files
}

const timeFormat = "2006-01-02 15:04:05"

// New creates a logger for one process run. File output goes to
// <FileDir>/newspulse_YYYYMMDD_HHMMSS.log.
func New(cfg Config) (arbor.ILogger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch strings.ToLower(out) {
		case "console", "stdout":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stdout,
				TimeFormat: timeFormat,
				OutputType: models.OutputFormatLogfmt,
			})
		case "file":
			path, err := FilePath(cfg.FileDir, time.Now())
			if err != nil {
				return nil, err
			}
			l = l.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   path,
				TimeFormat: timeFormat,
				MaxSize:    50 * 1024 * 1024,
				MaxBackups: 5,
				OutputType: models.OutputFormatLogfmt,
			})
		default:
			return nil, fmt.Errorf("unknown log output %q", out)
		}
	}

	return l.WithLevelFromString(level), nil
}

// FilePath returns the log file path for a run started at t, creating dir.
func FilePath(dir string, t time.Time) (string, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory %s: %w", dir, err)
	}
	return filepath.Join(dir, "newspulse_"+t.Format("20060102_150405")+".log"), nil
}

// discardWriter implements writers.IWriter and drops everything.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// NewSilent returns a logger that discards all output. Used by tests and
// by the one-shot `score`/`resolve` commands.
func NewSilent() arbor.ILogger {
	return arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})
}
