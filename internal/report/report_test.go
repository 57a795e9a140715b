package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/newspulse/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func sampleRows() []models.ReportRow {
	return []models.ReportRow{
		{Ticker: "AAPL", SentimentScore: 1, TotalMentions: 2, PositiveMentions: 2,
			SampleHeadlines: "Apple beats; Apple, Inc. soars"},
		{Ticker: "WMT", SentimentScore: 0, TotalMentions: 1, NeutralMentions: 1,
			SampleHeadlines: "Walmart <opens> store"},
		{Ticker: "MSFT", SentimentScore: -1, TotalMentions: 1, NegativeMentions: 1,
			SampleHeadlines: "MSFT faces investigation"},
	}
}

func sampleReport() Report {
	return Report{
		RunID:       "run-123",
		GeneratedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		WindowStart: time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
		WindowEnd:   time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		Rows:        sampleRows(),
	}
}

// ════════════════════════════════════════════════════════════════════
// Formats
// ════════════════════════════════════════════════════════════════════

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"csv", FormatCSV, false},
		{" JSON ", FormatJSON, false},
		{"htm", FormatHTML, false},
		{"db", FormatSQLite, false},
		{"sqlite", FormatSQLite, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) err = %v, want ErrUnknownFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInferFormat(t *testing.T) {
	tests := map[string]Format{
		"data/output/results.csv": FormatCSV,
		"out/report.JSON":         FormatJSON,
		"report.html":             FormatHTML,
		"history.db":              FormatSQLite,
		"history.sqlite":          FormatSQLite,
		"results":                 FormatCSV,
		"weird.txt":               FormatCSV,
	}
	for path, want := range tests {
		if got := InferFormat(path); got != want {
			t.Errorf("InferFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

// ════════════════════════════════════════════════════════════════════
// CSV / JSON
// ════════════════════════════════════════════════════════════════════

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if !reflect.DeepEqual(records[0], Columns) {
		t.Errorf("header: got %v", records[0])
	}
	want := []string{"AAPL", "1.0000", "2", "2", "0", "0", "Apple beats; Apple, Inc. soars"}
	if !reflect.DeepEqual(records[1], want) {
		t.Errorf("row 1: got %v, want %v", records[1], want)
	}
	if len(records) != 4 || records[3][0] != "MSFT" || records[3][1] != "-1.0000" {
		t.Errorf("rows out of order: %v", records)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	want := strings.Join(Columns, ",") + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var got struct {
		RunID       string             `json:"run_id"`
		GeneratedAt time.Time          `json:"generated_at"`
		Rows        []models.ReportRow `json:"rows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.RunID != "run-123" || len(got.Rows) != 3 || got.Rows[2].Ticker != "MSFT" {
		t.Errorf("got %+v", got)
	}

	buf.Reset()
	if err := WriteJSON(&buf, Report{}); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"rows": []`) {
		t.Errorf("empty report should carry an empty rows array: %s", buf.String())
	}
}

// ════════════════════════════════════════════════════════════════════
// HTML
// ════════════════════════════════════════════════════════════════════

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteHTML() error: %v", err)
	}
	html := buf.String()

	checks := []struct {
		name   string
		substr string
	}{
		{"html tag", "<html"},
		{"title", "Financial News Sentiment Report"},
		{"run id", "run-123"},
		{"window", "2026-10-16 to 2026-10-17"},
		{"ticker", "AAPL"},
		{"escaped headline", "Walmart &lt;opens&gt; store"},
		{"positive class", `class="num positive"`},
		{"negative class", `class="num negative"`},
		{"chart", "<svg"},
		{"score", "-1.00"},
	}
	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !strings.Contains(html, c.substr) {
				t.Errorf("expected %q in HTML output", c.substr)
			}
		})
	}
}

func TestWriteHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, Report{}); err != nil {
		t.Fatalf("WriteHTML() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No tickers were mentioned") {
		t.Error("expected empty-report notice")
	}
}

func TestSentimentChart(t *testing.T) {
	svg := SentimentChart(sampleRows(), DefaultChartConfig())
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an SVG document: %.60s", svg)
	}
	if n := strings.Count(svg, `rx="2"`); n != 3 {
		t.Errorf("got %d bars, want 3", n)
	}
	if !strings.Contains(svg, "#4caf50") || !strings.Contains(svg, "#ef5350") {
		t.Error("expected positive and negative bar colors")
	}

	empty := SentimentChart(nil, ChartConfig{})
	if !strings.Contains(empty, "No data") {
		t.Error("expected empty chart placeholder")
	}
}

func TestChartEscapesLabels(t *testing.T) {
	svg := HorizontalBarChart([]BarItem{{Label: `<b>&"`, Value: 0.5}}, DefaultChartConfig())
	if strings.Contains(svg, "<b>") || !strings.Contains(svg, "&lt;b&gt;&amp;&quot;") {
		t.Errorf("label not escaped: %s", svg)
	}
}

// ════════════════════════════════════════════════════════════════════
// Write / SQLite
// ════════════════════════════════════════════════════════════════════

func TestWriteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "output", "results.csv")
	if err := Write(path, "", sampleReport()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.HasPrefix(string(data), strings.Join(Columns, ",")) {
		t.Errorf("unexpected content: %.80s", data)
	}
}

func TestWriteForcedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.out")
	if err := Write(path, FormatJSON, sampleReport()); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !json.Valid(data) {
		t.Errorf("expected JSON, got %.80s", data)
	}
}

func TestWriteUnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Write(filepath.Join(blocker, "out", "results.csv"), "", sampleReport())
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want *models.ConfigError", err)
	}
}

func TestSQLiteAppendsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first := sampleReport()
	if err := Write(path, "", first); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	second := sampleReport()
	second.RunID = "run-456"
	second.Rows = second.Rows[:1]
	if err := Write(path, FormatSQLite, second); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := ReadSQLite(path, "run-123")
	if err != nil {
		t.Fatalf("ReadSQLite() error: %v", err)
	}
	if !reflect.DeepEqual(got, sampleRows()) {
		t.Errorf("got %+v\nwant %+v", got, sampleRows())
	}

	got, err = ReadSQLite(path, "run-456")
	if err != nil {
		t.Fatalf("ReadSQLite() error: %v", err)
	}
	if len(got) != 1 || got[0].Ticker != "AAPL" {
		t.Errorf("second run: got %+v", got)
	}
}

// ════════════════════════════════════════════════════════════════════
// Summary
// ════════════════════════════════════════════════════════════════════

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteSummary() error: %v", err)
	}
	out := buf.String()

	bull := strings.Index(out, "=== Top 5 Bullish Tickers ===")
	bear := strings.Index(out, "=== Top 5 Bearish Tickers ===")
	if bull < 0 || bear < bull {
		t.Fatalf("missing or misordered headers:\n%s", out)
	}
	if !strings.Contains(out, "AAPL: 1.00 (Mentions: 2)\nSample headline: Apple beats\n") {
		t.Errorf("bullish entry missing:\n%s", out)
	}
	// Bearish block is ascending, so MSFT comes first.
	if !strings.HasPrefix(out[bear:], "=== Top 5 Bearish Tickers ===\nMSFT: -1.00 (Mentions: 1)") {
		t.Errorf("bearish block should start with MSFT:\n%s", out[bear:])
	}
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, nil); err != nil {
		t.Fatalf("WriteSummary() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"No bullish tickers found", "No bearish tickers found"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1.5m"},
		{90 * time.Minute, "1.5h"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
