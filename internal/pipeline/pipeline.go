// Package pipeline runs one newspulse pass: scrape the selected sources,
// resolve tickers, score sentiment and aggregate per-ticker statistics.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/newspulse/internal/aggregate"
	"github.com/seenimoa/newspulse/internal/datasource"
	"github.com/seenimoa/newspulse/pkg/models"
	"github.com/seenimoa/newspulse/pkg/utils"
)

// DefaultWorkers bounds concurrent sentiment scoring.
const DefaultWorkers = 4

// Resolver maps article text to ticker symbols.
type Resolver interface {
	Resolve(text string) []string
}

// Scorer rates text sentiment in [-1, 1].
type Scorer interface {
	Score(ctx context.Context, text string) float64
}

// Window is the inclusive date range a run covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// LookbackWindow returns the window of the last days days ending at now.
func LookbackWindow(now time.Time, days int) Window {
	start, end := utils.LookbackWindow(now, days)
	return Window{Start: start, End: end}
}

// Config wires a Pipeline.
type Config struct {
	Scrapers []datasource.Scraper
	Resolver Resolver
	Scorer   Scorer
	Logger   arbor.ILogger
	Workers  int
}

// Pipeline is safe to Run repeatedly; every run uses a fresh aggregator.
type Pipeline struct {
	scrapers []datasource.Scraper
	resolver Resolver
	scorer   Scorer
	logger   arbor.ILogger
	workers  int
}

// New creates a Pipeline from cfg.
func New(cfg Config) *Pipeline {
	workers := cfg.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Pipeline{
		scrapers: cfg.Scrapers,
		resolver: cfg.Resolver,
		scorer:   cfg.Scorer,
		logger:   cfg.Logger,
		workers:  workers,
	}
}

// Result is the outcome of a run.
type Result struct {
	RunID     string
	Window    Window
	Collected int                       // articles returned by scrapers
	Dropped   int                       // malformed articles
	Relevant  int                       // articles mentioning at least one ticker
	Articles  []models.AnalyzedArticle  // relevant articles in collection order
	Rows      []models.ReportRow        // Finalize order
	Sources   []datasource.SourceResult // per-scraper outcome
	Elapsed   time.Duration
}

// Run scrapes all sources for w and processes what they return.
// Scraper failures are logged and skipped; only cancellation is returned.
func (p *Pipeline) Run(ctx context.Context, w Window) (*Result, error) {
	began := time.Now()
	runID := uuid.NewString()
	logger := p.logger.WithCorrelationId(runID)

	logger.Info().
		Str("start", utils.FormatDate(w.Start)).
		Str("end", utils.FormatDate(w.End)).
		Int("sources", len(p.scrapers)).
		Msg("Fetching news")

	coll, err := datasource.Collect(ctx, p.scrapers, w.Start, w.End, logger)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("articles", len(coll.Articles)).Msg("Collected articles")

	res, err := p.process(ctx, logger, coll.Articles)
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	res.Window = w
	res.Sources = coll.Sources
	res.Elapsed = time.Since(began)

	logger.Info().
		Int("relevant", res.Relevant).
		Int("tickers", len(res.Rows)).
		Str("elapsed", res.Elapsed.Round(time.Millisecond).String()).
		Msg("Run complete")
	return res, nil
}

// Process runs the resolve, score and aggregate stages over articles that
// were already collected.
func (p *Pipeline) Process(ctx context.Context, articles []models.Article) (*Result, error) {
	runID := uuid.NewString()
	res, err := p.process(ctx, p.logger.WithCorrelationId(runID), articles)
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	return res, nil
}

func (p *Pipeline) process(ctx context.Context, logger arbor.ILogger, articles []models.Article) (*Result, error) {
	res := &Result{Collected: len(articles)}

	// Validate and resolve.
	var relevant []models.AnalyzedArticle
	for _, a := range articles {
		if err := a.Validate(); err != nil {
			res.Dropped++
			logger.Warn().Err(err).Msg("Dropping malformed article")
			continue
		}
		syms := p.resolver.Resolve(a.Text())
		if len(syms) == 0 {
			continue
		}
		relevant = append(relevant, models.AnalyzedArticle{Article: a, Tickers: syms})
	}
	res.Relevant = len(relevant)
	logger.Info().Int("relevant", len(relevant)).Msg("Articles contain relevant tickers")

	if err := p.score(ctx, relevant); err != nil {
		return nil, err
	}

	// Fold serially in collection order.
	agg := aggregate.New()
	for _, aa := range relevant {
		agg.FoldAnalyzed(aa)
	}
	res.Articles = relevant
	res.Rows = agg.Finalize()
	return res, nil
}

// score fills SentimentScore in place. Each goroutine writes only its own
// index.
func (p *Pipeline) score(ctx context.Context, articles []models.AnalyzedArticle) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range articles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			articles[i].SentimentScore = p.scorer.Score(gctx, articles[i].Content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
