package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/pkg/models"
)

// ListingConfig describes how to read a site's section pages.
type ListingConfig struct {
	BaseURL      string   // pages and relative links resolve against it
	Pages        []string // section paths, e.g. "/markets"
	Domain       string   // links not containing it are skipped
	ItemSelector string
	LinkSelector string // within an item; its text is the headline
	TimeSelector string // within an item; optional

	// MetaTimeFallback takes the timestamp from the article page's
	// article:published_time meta tag when the listing shows none.
	MetaTimeFallback bool
}

// ListingSource scrapes article links from HTML section pages.
type ListingSource struct {
	name      string
	cfg       ListingConfig
	fetcher   *Fetcher
	extractor *ContentExtractor
	logger    arbor.ILogger
	now       func() time.Time
}

// NewListingSource creates a listing-page scraper.
func NewListingSource(name string, cfg ListingConfig, fetcher *Fetcher, extractor *ContentExtractor, logger arbor.ILogger) *ListingSource {
	return &ListingSource{
		name:      name,
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
	}
}

// Name returns the data source name.
func (s *ListingSource) Name() string { return s.name }

func (s *ListingSource) contentExtractor() *ContentExtractor { return s.extractor }

// listingItem is one headline found on a section page.
type listingItem struct {
	title     string
	url       string
	timestamp *time.Time
	relative  bool // "3 hours ago"; resolved against the window in article
}

// Scrape walks every section page and returns the in-window articles.
func (s *ListingSource) Scrape(ctx context.Context, start, end time.Time) ([]models.Article, error) {
	base, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: bad base URL: %w", s.name, err)
	}

	seen := make(map[string]bool)
	var articles []models.Article
	failed := 0

	for _, page := range s.cfg.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pageURL := base.ResolveReference(&url.URL{Path: page}).String()
		items, err := s.fetchListing(ctx, base, pageURL)
		if err != nil {
			failed++
			s.logger.Warn().Err(err).Str("source", s.name).Str("page", pageURL).Msg("Listing fetch failed")
			continue
		}

		for _, item := range items {
			if seen[item.url] {
				continue
			}
			seen[item.url] = true

			a, ok := s.article(ctx, item, start, end)
			if ok {
				articles = append(articles, a)
			}
		}
	}

	if failed == len(s.cfg.Pages) && len(s.cfg.Pages) > 0 {
		return nil, fmt.Errorf("%s: %w", s.name, ErrNoArticles)
	}
	s.logger.Debug().Str("source", s.name).Int("articles", len(articles)).Msg("Listing scrape complete")
	return articles, nil
}

func (s *ListingSource) fetchListing(ctx context.Context, base *url.URL, pageURL string) ([]listingItem, error) {
	body, err := s.fetcher.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	var items []listingItem
	doc.Find(s.cfg.ItemSelector).Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(s.cfg.LinkSelector).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if s.cfg.Domain != "" && !strings.Contains(abs, s.cfg.Domain) {
			return
		}

		item := listingItem{title: collapseSpace(link.Text()), url: abs}
		if s.cfg.TimeSelector != "" {
			item.timestamp, item.relative = parseListingTime(sel.Find(s.cfg.TimeSelector).First().Text())
		}
		items = append(items, item)
	})
	return items, nil
}

// article filters by window, then extracts the page text. Without a listing
// timestamp the filter runs again on the meta fallback, if enabled.
func (s *ListingSource) article(ctx context.Context, item listingItem, start, end time.Time) (models.Article, bool) {
	a := models.Article{
		Title:     item.title,
		URL:       item.url,
		Timestamp: item.timestamp,
		Source:    s.name,
	}
	if item.relative {
		// The window is fixed before scraping, so now may already be past end.
		ts := s.now()
		if ts.After(end) {
			ts = end
		}
		a.Timestamp = &ts
	}
	if !a.InWindow(start, end) {
		return a, false
	}

	content, err := s.extractor.Extract(ctx, item.url)
	if err != nil {
		s.logger.Debug().Err(&models.CollaboratorError{Collaborator: "scraper:" + s.name, Item: item.url, Err: err}).Msg("Skipping article")
		return a, false
	}
	a.Content = content.Text
	a.Snippet = content.Excerpt
	if a.Title == "" {
		a.Title = content.Title
	}
	if a.Timestamp == nil && s.cfg.MetaTimeFallback && content.Published != nil {
		a.Timestamp = content.Published
		if !a.InWindow(start, end) {
			return a, false
		}
	}
	return a, true
}

// parseListingTime reads a listing timestamp. Relative times ("3 hours
// ago") report relative with no timestamp; unparseable text gives nil.
func parseListingTime(raw string) (ts *time.Time, relative bool) {
	raw = collapseSpace(raw)
	if raw == "" {
		return nil, false
	}
	if strings.Contains(strings.ToLower(raw), "ago") {
		return nil, true
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil, false
	}
	return &t, false
}
