// Package tickers loads and indexes the universe of (ticker, company name)
// pairs used for ticker resolution.
package tickers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/pkg/models"
	"github.com/seenimoa/newspulse/pkg/utils"
)

// Column names expected in the ticker file header.
const (
	ColumnTicker  = "ticker"
	ColumnCompany = "company_name"
)

// corporateSuffix matches a trailing corporate designator, e.g. " Inc." or " Corporation".
var corporateSuffix = regexp.MustCompile(`\s+(Inc|Corp|Co|Ltd|LLC|Corporation|Company|Limited)\.?$`)

// Registry is the read-only ticker universe. It is built once by Load and is
// safe for concurrent readers afterwards.
type Registry struct {
	records   []models.TickerRecord
	byTicker  map[string]string // symbol → company name
	companies map[string]string // company name → symbol
	variants  map[string]string // lowercase variant → symbol
}

// NewRegistry indexes the given records. Later records win on collisions.
func NewRegistry(records []models.TickerRecord) *Registry {
	r := &Registry{
		byTicker:  make(map[string]string, len(records)),
		companies: make(map[string]string, len(records)),
		variants:  make(map[string]string, len(records)*3),
	}
	for _, rec := range records {
		sym := utils.NormalizeTicker(rec.Symbol)
		if sym == "" {
			continue
		}
		name := strings.TrimSpace(rec.CompanyName)
		if _, dup := r.byTicker[sym]; !dup {
			r.records = append(r.records, models.TickerRecord{Symbol: sym, CompanyName: name})
		}
		r.byTicker[sym] = name
		if name == "" {
			continue
		}
		r.companies[name] = sym
		for _, v := range Variants(name) {
			r.variants[v] = sym
		}
	}
	return r
}

// Variants returns the lowercase strings a company name can be matched by:
// the full name, the name without a corporate suffix, and the first word
// when it is longer than four characters and not "the".
func Variants(company string) []string {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil
	}
	seen := make(map[string]bool, 3)
	var out []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	add(strings.ToLower(company))
	add(strings.ToLower(corporateSuffix.ReplaceAllString(company, "")))

	first := strings.Fields(company)[0]
	if len(first) > 4 && strings.ToLower(first) != "the" {
		add(strings.ToLower(first))
	}
	return out
}

// Load reads a two-column CSV ticker file (header ticker,company_name).
//
// When the file does not exist the built-in default universe is written to
// path and used. When the file is malformed the error is logged and an empty
// registry is returned together with a *models.ConfigError, so resolution
// finds nothing instead of aborting; callers decide whether that is fatal.
func Load(path string, logger arbor.ILogger) (*Registry, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := WriteFile(path, models.DefaultTickers); err != nil {
			cerr := &models.ConfigError{Path: path, Err: err}
			logger.Error().Err(cerr).Msg("Error creating sample tickers file")
			return NewRegistry(nil), cerr
		}
		logger.Info().Str("path", path).Msg("Created sample tickers file")
	}

	records, err := ReadFile(path)
	if err != nil {
		cerr := &models.ConfigError{Path: path, Err: err}
		logger.Error().Err(cerr).Msg("Error loading tickers")
		return NewRegistry(nil), cerr
	}

	reg := NewRegistry(records)
	logger.Info().Int("count", reg.Len()).Str("path", path).Msg("Loaded tickers")
	return reg, nil
}

// ReadFile parses a ticker CSV file.
func ReadFile(path string) ([]models.TickerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticker file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads ticker records from CSV. Column order is taken from the header;
// extra columns are ignored.
func Parse(r io.Reader) ([]models.TickerRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("ticker file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	tickerCol, companyCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case ColumnTicker:
			tickerCol = i
		case ColumnCompany:
			companyCol = i
		}
	}
	if tickerCol < 0 || companyCol < 0 {
		return nil, fmt.Errorf("missing required columns %q and %q in header %v", ColumnTicker, ColumnCompany, header)
	}

	var records []models.TickerRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if tickerCol >= len(row) {
			continue
		}
		rec := models.TickerRecord{Symbol: row[tickerCol]}
		if companyCol < len(row) {
			rec.CompanyName = row[companyCol]
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteFile persists records as a ticker CSV, creating parent directories.
func WriteFile(path string, records []models.TickerRecord) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ticker directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ticker file: %w", err)
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{ColumnTicker, ColumnCompany})
	for _, rec := range records {
		_ = w.Write([]string{rec.Symbol, rec.CompanyName})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write ticker file: %w", err)
	}
	return f.Close()
}

// Len returns the number of distinct symbols.
func (r *Registry) Len() int { return len(r.byTicker) }

// Symbols returns every registered symbol in sorted order.
func (r *Registry) Symbols() []string {
	out := make([]string, 0, len(r.byTicker))
	for sym := range r.byTicker {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Company returns the company name for a symbol.
func (r *Registry) Company(symbol string) (string, bool) {
	name, ok := r.byTicker[utils.NormalizeTicker(symbol)]
	return name, ok
}

// Records returns the records in load order (first occurrence of each symbol).
func (r *Registry) Records() []models.TickerRecord {
	return append([]models.TickerRecord(nil), r.records...)
}

// CompanyVariants returns the lowercase variant → symbol index.
// The map is shared; callers must not modify it.
func (r *Registry) CompanyVariants() map[string]string { return r.variants }

// Companies returns the company name → symbol index.
// The map is shared; callers must not modify it.
func (r *Registry) Companies() map[string]string { return r.companies }
