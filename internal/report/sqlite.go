package report

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/seenimoa/newspulse/pkg/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS report_rows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	generated_at DATETIME NOT NULL,
	window_start DATETIME,
	window_end DATETIME,
	rank INTEGER NOT NULL,
	ticker TEXT NOT NULL,
	sentiment_score REAL NOT NULL,
	total_mentions INTEGER NOT NULL,
	positive_mentions INTEGER NOT NULL,
	negative_mentions INTEGER NOT NULL,
	neutral_mentions INTEGER NOT NULL,
	sample_headlines TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_report_rows_run ON report_rows(run_id);
CREATE INDEX IF NOT EXISTS idx_report_rows_ticker ON report_rows(ticker);
`

// WriteSQLite appends the rows of r to the report_rows table of the
// database at path, creating it if needed. Each run is one transaction.
func WriteSQLite(path string, r Report) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &models.ConfigError{Path: path, Err: fmt.Errorf("open database: %w", err)}
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return &models.ConfigError{Path: path, Err: fmt.Errorf("init schema: %w", err)}
	}

	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO report_rows
		(run_id, generated_at, window_start, window_end, rank, ticker, sentiment_score,
		 total_mentions, positive_mentions, negative_mentions, neutral_mentions, sample_headlines)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range r.Rows {
		if _, err := stmt.Exec(r.RunID, generated.UTC(), nullTime(r.WindowStart), nullTime(r.WindowEnd), i+1,
			row.Ticker, row.SentimentScore, row.TotalMentions, row.PositiveMentions,
			row.NegativeMentions, row.NeutralMentions, row.SampleHeadlines); err != nil {
			return fmt.Errorf("insert %s: %w", row.Ticker, err)
		}
	}
	return tx.Commit()
}

// ReadSQLite returns the rows stored for runID in rank order. A missing
// database is an error rather than being created empty.
func ReadSQLite(path, runID string) ([]models.ReportRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &models.ConfigError{Path: path, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT ticker, sentiment_score, total_mentions, positive_mentions,
		negative_mentions, neutral_mentions, sample_headlines
		FROM report_rows WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []models.ReportRow
	for rows.Next() {
		var r models.ReportRow
		if err := rows.Scan(&r.Ticker, &r.SentimentScore, &r.TotalMentions, &r.PositiveMentions,
			&r.NegativeMentions, &r.NeutralMentions, &r.SampleHeadlines); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
