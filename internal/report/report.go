// Package report writes the per-ticker sentiment rows of a run to CSV, JSON,
// HTML or SQLite and prints the console summary.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/seenimoa/newspulse/internal/aggregate"
	"github.com/seenimoa/newspulse/pkg/models"
	"github.com/seenimoa/newspulse/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Formats
// ════════════════════════════════════════════════════════════════════

// Format specifies the output format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatHTML   Format = "html"
	FormatSQLite Format = "sqlite"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats returns the supported format names.
func Formats() []string {
	return []string{string(FormatCSV), string(FormatJSON), string(FormatHTML), string(FormatSQLite)}
}

// ParseFormat parses a format name. The empty string means "infer from
// the output path".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "html", "htm":
		return FormatHTML, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
}

// InferFormat picks a format from the file extension, defaulting to CSV.
func InferFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".html", ".htm":
		return FormatHTML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	}
	return FormatCSV
}

// ════════════════════════════════════════════════════════════════════
// Report
// ════════════════════════════════════════════════════════════════════

// Columns is the tabular report header, in order.
var Columns = []string{
	"ticker",
	"sentiment_score",
	"total_mentions",
	"positive_mentions",
	"negative_mentions",
	"neutral_mentions",
	"sample_headlines",
}

// Report is one run's output.
type Report struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	WindowStart time.Time          `json:"window_start"`
	WindowEnd   time.Time          `json:"window_end"`
	Rows        []models.ReportRow `json:"rows"`
}

// Write writes r to path. An empty format is inferred from the extension.
// The parent directory is created; failing to create it or the file is a
// ConfigError.
func Write(path string, format Format, r Report) error {
	if format == "" {
		format = InferFormat(path)
	}
	if err := EnsureDir(path); err != nil {
		return err
	}

	if format == FormatSQLite {
		return WriteSQLite(path, r)
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, r.Rows)
	case FormatJSON:
		err = WriteJSON(&buf, r)
	case FormatHTML:
		err = WriteHTML(&buf, r)
	default:
		return &models.ConfigError{Path: path, Err: fmt.Errorf("%w %q", ErrUnknownFormat, format)}
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &models.ConfigError{Path: path, Err: err}
	}
	return nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &models.ConfigError{Path: dir, Err: fmt.Errorf("create output directory: %w", err)}
	}
	return nil
}

// WriteCSV writes the header and one record per row. With no rows only the
// header is written.
func WriteCSV(w io.Writer, rows []models.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Ticker,
			FormatScore(r.SentimentScore),
			strconv.Itoa(r.TotalMentions),
			strconv.Itoa(r.PositiveMentions),
			strconv.Itoa(r.NegativeMentions),
			strconv.Itoa(r.NeutralMentions),
			r.SampleHeadlines,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes r as an indented JSON document.
func WriteJSON(w io.Writer, r Report) error {
	if r.Rows == nil {
		r.Rows = []models.ReportRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ════════════════════════════════════════════════════════════════════
// HTML
// ════════════════════════════════════════════════════════════════════

// htmlData is the template model passed to ReportTemplate.
type htmlData struct {
	Title       string
	GeneratedAt string
	Window      string
	RunID       string
	Rows        []models.ReportRow
	Bullish     []models.ReportRow
	Bearish     []models.ReportRow
	Chart       template.HTML
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"scoreClass": scoreClass,
}).Parse(ReportTemplate))

// WriteHTML renders r as a standalone HTML page with an SVG chart.
func WriteHTML(w io.Writer, r Report) error {
	data := htmlData{
		Title:       "Financial News Sentiment Report",
		GeneratedAt: ReportTimestamp(r.GeneratedAt),
		RunID:       r.RunID,
		Rows:        r.Rows,
		Bullish:     aggregate.TopBullish(r.Rows, TopN),
		Bearish:     aggregate.TopBearish(r.Rows, TopN),
		// SentimentChart escapes every label it draws.
		Chart: template.HTML(SentimentChart(r.Rows, DefaultChartConfig())),
	}
	if !r.WindowStart.IsZero() {
		data.Window = utils.FormatDate(r.WindowStart) + " to " + utils.FormatDate(r.WindowEnd)
	}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

func scoreClass(v float64) string {
	return string(models.Classify(v))
}

// ════════════════════════════════════════════════════════════════════
// Utility
// ════════════════════════════════════════════════════════════════════

// FormatScore formats a sentiment score for tabular output.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// ReportTimestamp formats t for report headers.
func ReportTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("02 Jan 2006, 15:04 MST")
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
