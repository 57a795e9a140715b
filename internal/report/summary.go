package report

import (
	"fmt"
	"io"

	"github.com/seenimoa/newspulse/internal/aggregate"
	"github.com/seenimoa/newspulse/pkg/models"
)

// TopN is the length of the bullish and bearish lists.
const TopN = 5

// WriteSummary prints the top bullish and bearish tickers of rows, which
// must be in Finalize order.
func WriteSummary(w io.Writer, rows []models.ReportRow) error {
	if err := writeBlock(w, fmt.Sprintf("=== Top %d Bullish Tickers ===", TopN), "No bullish tickers found", aggregate.TopBullish(rows, TopN)); err != nil {
		return err
	}
	return writeBlock(w, fmt.Sprintf("=== Top %d Bearish Tickers ===", TopN), "No bearish tickers found", aggregate.TopBearish(rows, TopN))
}

func writeBlock(w io.Writer, title, empty string, rows []models.ReportRow) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, empty)
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s: %.2f (Mentions: %d)\nSample headline: %s\n\n",
			r.Ticker, r.SentimentScore, r.TotalMentions, r.FirstHeadline()); err != nil {
			return err
		}
	}
	return nil
}
