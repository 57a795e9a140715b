package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seenimoa/newspulse/internal/analysis/sentiment"
	"github.com/seenimoa/newspulse/internal/datasource"
	"github.com/seenimoa/newspulse/internal/logging"
	"github.com/seenimoa/newspulse/internal/ner"
	"github.com/seenimoa/newspulse/internal/resolver"
	"github.com/seenimoa/newspulse/internal/tickers"
	"github.com/seenimoa/newspulse/pkg/models"
)

type staticScraper struct {
	name     string
	articles []models.Article
	err      error
}

func (s staticScraper) Name() string { return s.name }
func (s staticScraper) Scrape(context.Context, time.Time, time.Time) ([]models.Article, error) {
	return s.articles, s.err
}

// tableScorer looks content up in a map; unknown content scores 0.
type tableScorer map[string]float64

func (s tableScorer) Score(_ context.Context, text string) float64 { return s[text] }

// delayScorer sleeps longer for earlier articles so scoring finishes out
// of order.
type delayScorer struct{ n int }

func (s delayScorer) Score(_ context.Context, text string) float64 {
	var i int
	fmt.Sscanf(text, "body %d", &i)
	time.Sleep(time.Duration(s.n-i) * time.Millisecond)
	if i%2 == 0 {
		return 0.5
	}
	return -0.5
}

func testResolver() *resolver.Resolver {
	reg := tickers.NewRegistry(models.DefaultTickers)
	return resolver.New(reg, ner.Heuristic{Known: reg.CompanyVariants()}, logging.NewSilent())
}

var testWindow = Window{
	Start: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
}

func TestRunEndToEnd(t *testing.T) {
	scrapers := []datasource.Scraper{
		staticScraper{name: "Wire", articles: []models.Article{
			{Title: "AAPL beats earnings, bullish outlook", URL: "https://x/1", Content: "aapl body", Source: "Wire"},
			{Title: "Markets drift", URL: "https://x/2", Content: "nothing here", Source: "Wire"},
		}},
		staticScraper{name: "Down", err: errors.New("blocked")},
		staticScraper{name: "Desk", articles: []models.Article{
			{Title: "MSFT faces investigation over bearish warning", URL: "https://y/1", Content: "msft body", Source: "Desk"},
			{Content: "orphan text about AAPL", Source: "Desk"},
		}},
	}
	p := New(Config{
		Scrapers: scrapers,
		Resolver: testResolver(),
		Scorer:   tableScorer{"aapl body": 0.6, "msft body": -0.5},
		Logger:   logging.NewSilent(),
	})

	res, err := p.Run(context.Background(), testWindow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.Collected != 4 || res.Dropped != 1 || res.Relevant != 2 {
		t.Errorf("got collected=%d dropped=%d relevant=%d, want 4/1/2", res.Collected, res.Dropped, res.Relevant)
	}
	if _, err := uuid.Parse(res.RunID); err != nil {
		t.Errorf("run id %q is not a uuid: %v", res.RunID, err)
	}
	if res.Window != testWindow {
		t.Errorf("window: got %+v", res.Window)
	}
	if len(res.Sources) != 3 || res.Sources[1].Err == nil {
		t.Errorf("source results: %+v", res.Sources)
	}

	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}
	if r := res.Rows[0]; r.Ticker != "AAPL" || r.SentimentScore != 1.0 || r.PositiveMentions != 1 {
		t.Errorf("row 0: got %+v", r)
	}
	if r := res.Rows[1]; r.Ticker != "MSFT" || r.SentimentScore != -1.0 || r.NegativeMentions != 1 {
		t.Errorf("row 1: got %+v", r)
	}

	if res.Articles[0].SentimentScore != 0.6 || res.Articles[1].SentimentScore != -0.5 {
		t.Errorf("scores: got %v and %v", res.Articles[0].SentimentScore, res.Articles[1].SentimentScore)
	}
}

func TestRunFoldsInCollectionOrder(t *testing.T) {
	const n = 12
	var articles []models.Article
	for i := 0; i < n; i++ {
		articles = append(articles, models.Article{
			Title:   fmt.Sprintf("TSLA update %d", i),
			URL:     fmt.Sprintf("https://x/%d", i),
			Content: fmt.Sprintf("body %d", i),
		})
	}
	p := New(Config{
		Scrapers: []datasource.Scraper{staticScraper{name: "Wire", articles: articles}},
		Resolver: testResolver(),
		Scorer:   delayScorer{n: n},
		Logger:   logging.NewSilent(),
		Workers:  n,
	})

	res, err := p.Run(context.Background(), testWindow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	row := res.Rows[0]
	if row.SampleHeadlines != "TSLA update 0; TSLA update 1; TSLA update 2" {
		t.Errorf("headlines out of order: %q", row.SampleHeadlines)
	}
	if row.PositiveMentions != n/2 || row.NegativeMentions != n/2 || row.TotalMentions != n {
		t.Errorf("counts: got %+v", row)
	}
	for i, a := range res.Articles {
		want := 0.5
		if i%2 == 1 {
			want = -0.5
		}
		if a.SentimentScore != want {
			t.Errorf("article %d: got %v, want %v", i, a.SentimentScore, want)
		}
	}
}

func TestRunNoArticles(t *testing.T) {
	p := New(Config{
		Scrapers: []datasource.Scraper{staticScraper{name: "Empty"}},
		Resolver: testResolver(),
		Scorer:   tableScorer{},
		Logger:   logging.NewSilent(),
	})
	res, err := p.Run(context.Background(), testWindow)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Rows) != 0 || res.Relevant != 0 {
		t.Errorf("got %+v, want an empty result", res)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(Config{
		Scrapers: []datasource.Scraper{staticScraper{name: "Wire", articles: []models.Article{
			{Title: "AAPL rallies", URL: "https://x/1", Content: "a"},
		}}},
		Resolver: testResolver(),
		Scorer:   tableScorer{},
		Logger:   logging.NewSilent(),
	})
	if _, err := p.Run(ctx, testWindow); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestProcessWithSentimentScorer(t *testing.T) {
	p := New(Config{
		Resolver: testResolver(),
		Scorer:   sentiment.NewScorer(nil, logging.NewSilent()),
		Logger:   logging.NewSilent(),
	})
	res, err := p.Process(context.Background(), []models.Article{
		{Title: "Walmart posts record profit", URL: "https://x/1", Content: "Walmart posted record profit and strong growth, a bullish quarter."},
		{Title: "Tesla recalls cars", URL: "https://x/2", Content: "Tesla faces a lawsuit and a probe after losses and a downgrade."},
	})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}
	if res.Rows[0].Ticker != "WMT" || res.Rows[1].Ticker != "TSLA" {
		t.Errorf("got order %s, %s; want WMT, TSLA", res.Rows[0].Ticker, res.Rows[1].Ticker)
	}
	for _, a := range res.Articles {
		if math.Abs(a.SentimentScore) > 1 {
			t.Errorf("score %v out of range", a.SentimentScore)
		}
	}
}

func TestLookbackWindow(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	w := LookbackWindow(now, 3)
	if !w.End.Equal(now) || !w.Start.Equal(now.AddDate(0, 0, -3)) {
		t.Errorf("got %+v", w)
	}
	if w := LookbackWindow(now, 0); !w.Start.Equal(now.AddDate(0, 0, -1)) {
		t.Errorf("days < 1 should mean one day, got %+v", w)
	}
}
