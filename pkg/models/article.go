// Package models defines the shared data types for newspulse.
package models

import (
	"strings"
	"time"
)

// Article is a normalized news item as produced by a scraper.
// The pipeline never mutates an Article; derived data lives in AnalyzedArticle.
type Article struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Timestamp *time.Time `json:"timestamp,omitempty"` // nil when the source gave no usable date
	Content   string     `json:"content"`
	Snippet   string     `json:"snippet,omitempty"`
	Source    string     `json:"source"` // e.g., "Yahoo Finance", "Reuters"
}

// Text returns the text used for ticker resolution (title + content).
func (a Article) Text() string {
	return a.Title + " " + a.Content
}

// Validate reports whether the article carries enough data to be processed.
// Empty content is acceptable; an article with neither title nor URL is not.
func (a Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" && strings.TrimSpace(a.URL) == "" {
		return &DataError{Field: "title/url", Item: a.Source, Err: ErrMissingField}
	}
	return nil
}

// InWindow reports whether the article falls inside [start, end].
// Articles without a timestamp are always considered in range.
func (a Article) InWindow(start, end time.Time) bool {
	if a.Timestamp == nil {
		return true
	}
	return !a.Timestamp.Before(start) && !a.Timestamp.After(end)
}

// AnalyzedArticle wraps an Article with the tickers it mentions and its
// sentiment score in [-1, 1].
type AnalyzedArticle struct {
	Article
	Tickers        []string `json:"tickers"`
	SentimentScore float64  `json:"sentiment_score"`
}
