package models

import "strings"

// Classification thresholds. Scores exactly on a threshold are neutral.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Bucket is the sentiment class an article falls into.
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNegative Bucket = "negative"
	BucketNeutral  Bucket = "neutral"
)

// Classify maps a score to exactly one bucket.
func Classify(score float64) Bucket {
	switch {
	case score > PositiveThreshold:
		return BucketPositive
	case score < NegativeThreshold:
		return BucketNegative
	default:
		return BucketNeutral
	}
}

// HeadlineSample is a supporting headline recorded against a ticker.
type HeadlineSample struct {
	Headline  string  `json:"headline"`
	Sentiment float64 `json:"sentiment"`
	URL       string  `json:"url"`
	Source    string  `json:"source"`
}

// TickerAggregate accumulates mentions of one ticker during a run.
// Invariant: Positive + Negative + Neutral == Total.
type TickerAggregate struct {
	Positive  int              `json:"positive"`
	Negative  int              `json:"negative"`
	Neutral   int              `json:"neutral"`
	Total     int              `json:"total"`
	Headlines []HeadlineSample `json:"headlines"`
}

// Score returns (positive - negative) / total, or 0 with no mentions.
func (t *TickerAggregate) Score() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Positive-t.Negative) / float64(t.Total)
}

// SampleHeadlineCount is how many headlines a report row carries.
const SampleHeadlineCount = 3

// SampleHeadlines joins the first SampleHeadlineCount titles with "; ".
func (t *TickerAggregate) SampleHeadlines() string {
	n := len(t.Headlines)
	if n > SampleHeadlineCount {
		n = SampleHeadlineCount
	}
	titles := make([]string, 0, n)
	for _, h := range t.Headlines[:n] {
		titles = append(titles, h.Headline)
	}
	return strings.Join(titles, "; ")
}

// ReportRow is the final per-ticker output record.
type ReportRow struct {
	Ticker           string  `json:"ticker"`
	SentimentScore   float64 `json:"sentiment_score"`
	TotalMentions    int     `json:"total_mentions"`
	PositiveMentions int     `json:"positive_mentions"`
	NegativeMentions int     `json:"negative_mentions"`
	NeutralMentions  int     `json:"neutral_mentions"`
	SampleHeadlines  string  `json:"sample_headlines"`
}

// FirstHeadline returns the first sample headline, or "" if none.
func (r ReportRow) FirstHeadline() string {
	first, _, _ := strings.Cut(r.SampleHeadlines, ";")
	return first
}
