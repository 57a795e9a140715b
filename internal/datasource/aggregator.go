package datasource

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/pkg/models"
)

// SourceResult is the outcome of one scraper within a Collect call.
type SourceResult struct {
	Source   string
	Articles int
	Err      error
	Elapsed  time.Duration
}

// Collection holds the merged output of all scrapers.
type Collection struct {
	Articles []models.Article // in scraper order, then source order
	Sources  []SourceResult
}

// Failed returns the results of sources that returned an error.
func (c *Collection) Failed() []SourceResult {
	var out []SourceResult
	for _, r := range c.Sources {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Collect runs all scrapers concurrently and merges their articles. A
// failing scraper is logged and contributes nothing; only context
// cancellation is returned as an error.
func Collect(ctx context.Context, scrapers []Scraper, start, end time.Time, logger arbor.ILogger) (*Collection, error) {
	perSource := make([][]models.Article, len(scrapers))
	results := make([]SourceResult, len(scrapers))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for i, s := range scrapers {
		g.Go(func() error {
			began := time.Now()
			articles, err := s.Scrape(gctx, start, end)

			mu.Lock()
			defer mu.Unlock()
			results[i] = SourceResult{Source: s.Name(), Articles: len(articles), Elapsed: time.Since(began)}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				cerr := &models.CollaboratorError{Collaborator: "scraper:" + s.Name(), Item: "source", Err: err}
				results[i].Err = cerr
				results[i].Articles = 0
				logger.Warn().Err(cerr).Msg("Source failed, continuing without it")
				return nil // non-fatal
			}
			perSource[i] = articles
			logger.Info().Str("source", s.Name()).Int("articles", len(articles)).Msg("Source scraped")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Collection{Sources: results}
	for _, articles := range perSource {
		c.Articles = append(c.Articles, articles...)
	}
	pruneContent(scrapers, logger)
	return c, nil
}

// extractorSource is a scraper that downloads article pages.
type extractorSource interface {
	contentExtractor() *ContentExtractor
}

// pruneContent evicts expired pages from each distinct extractor the
// scrapers share.
func pruneContent(scrapers []Scraper, logger arbor.ILogger) {
	seen := make(map[*ContentExtractor]bool)
	for _, s := range scrapers {
		es, ok := s.(extractorSource)
		if !ok {
			continue
		}
		e := es.contentExtractor()
		if e == nil || seen[e] {
			continue
		}
		seen[e] = true
		logger.Debug().Int("entries", e.Prune()).Msg("Content cache pruned")
	}
}
