// Package aggregate folds scored articles into per-ticker sentiment
// statistics and ranks them for reporting.
package aggregate

import (
	"sort"

	"github.com/seenimoa/newspulse/pkg/models"
)

// Aggregator accumulates per-ticker mention counts for one run.
// It is not safe for concurrent use; callers serialize Fold.
type Aggregator struct {
	byTicker map[string]*models.TickerAggregate
	order    []string // first-seen order, used as the tie-break
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{byTicker: make(map[string]*models.TickerAggregate)}
}

// Fold records one article against each of its tickers. The score is
// classified into exactly one bucket and the headline appended.
func (a *Aggregator) Fold(article models.Article, tickers []string, score float64) {
	bucket := models.Classify(score)
	for _, sym := range tickers {
		agg, ok := a.byTicker[sym]
		if !ok {
			agg = &models.TickerAggregate{}
			a.byTicker[sym] = agg
			a.order = append(a.order, sym)
		}
		agg.Total++
		switch bucket {
		case models.BucketPositive:
			agg.Positive++
		case models.BucketNegative:
			agg.Negative++
		default:
			agg.Neutral++
		}
		agg.Headlines = append(agg.Headlines, models.HeadlineSample{
			Headline:  article.Title,
			Sentiment: score,
			URL:       article.URL,
			Source:    article.Source,
		})
	}
}

// FoldAnalyzed is Fold for an already analyzed article.
func (a *Aggregator) FoldAnalyzed(aa models.AnalyzedArticle) {
	a.Fold(aa.Article, aa.Tickers, aa.SentimentScore)
}

// Aggregate returns the accumulator for symbol.
func (a *Aggregator) Aggregate(symbol string) (*models.TickerAggregate, bool) {
	agg, ok := a.byTicker[symbol]
	return agg, ok
}

// Len returns the number of tickers with at least one mention.
func (a *Aggregator) Len() int { return len(a.order) }

// Finalize builds one ReportRow per ticker sorted by score, highest first.
// Equal scores keep first-seen order.
func (a *Aggregator) Finalize() []models.ReportRow {
	rows := make([]models.ReportRow, 0, len(a.order))
	for _, sym := range a.order {
		agg := a.byTicker[sym]
		rows = append(rows, models.ReportRow{
			Ticker:           sym,
			SentimentScore:   agg.Score(),
			TotalMentions:    agg.Total,
			PositiveMentions: agg.Positive,
			NegativeMentions: agg.Negative,
			NeutralMentions:  agg.Neutral,
			SampleHeadlines:  agg.SampleHeadlines(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SentimentScore > rows[j].SentimentScore
	})
	return rows
}

// TopBullish returns the first n rows of a Finalize result.
func TopBullish(rows []models.ReportRow, n int) []models.ReportRow {
	if n > len(rows) {
		n = len(rows)
	}
	if n <= 0 {
		return nil
	}
	return append([]models.ReportRow(nil), rows[:n]...)
}

// TopBearish returns the last n rows of a Finalize result ordered by score,
// lowest first. With fewer than 2n rows it can overlap TopBullish.
func TopBearish(rows []models.ReportRow, n int) []models.ReportRow {
	if n > len(rows) {
		n = len(rows)
	}
	if n <= 0 {
		return nil
	}
	out := append([]models.ReportRow(nil), rows[len(rows)-n:]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SentimentScore < out[j].SentimentScore
	})
	return out
}
