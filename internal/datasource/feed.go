package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/pkg/models"
)

// FeedSource scrapes a news site through its RSS/Atom feeds.
type FeedSource struct {
	name      string
	feeds     []string
	fetcher   *Fetcher
	extractor *ContentExtractor
	parser    *gofeed.Parser
	logger    arbor.ILogger
}

// NewFeedSource creates a feed scraper over the given feed URLs.
func NewFeedSource(name string, feeds []string, fetcher *Fetcher, extractor *ContentExtractor, logger arbor.ILogger) *FeedSource {
	return &FeedSource{
		name:      name,
		feeds:     feeds,
		fetcher:   fetcher,
		extractor: extractor,
		parser:    gofeed.NewParser(),
		logger:    logger,
	}
}

// Name returns the data source name.
func (s *FeedSource) Name() string { return s.name }

func (s *FeedSource) contentExtractor() *ContentExtractor { return s.extractor }

// Scrape reads every feed and returns the in-window items with their
// extracted article text. A feed that fails is skipped; the source fails
// only when no feed could be read.
func (s *FeedSource) Scrape(ctx context.Context, start, end time.Time) ([]models.Article, error) {
	seen := make(map[string]bool)
	var articles []models.Article
	failed := 0

	for _, feedURL := range s.feeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			failed++
			s.logger.Warn().Err(err).Str("source", s.name).Str("feed", feedURL).Msg("Feed fetch failed")
			continue
		}

		for _, item := range items {
			link := strings.TrimSpace(item.Link)
			if link == "" || seen[link] {
				continue
			}
			seen[link] = true

			a, ok := s.article(ctx, item, link, start, end)
			if ok {
				articles = append(articles, a)
			}
		}
	}

	if failed == len(s.feeds) && len(s.feeds) > 0 {
		return nil, fmt.Errorf("%s: %w", s.name, ErrNoArticles)
	}
	s.logger.Debug().Str("source", s.name).Int("articles", len(articles)).Msg("Feed scrape complete")
	return articles, nil
}

func (s *FeedSource) fetchFeed(ctx context.Context, feedURL string) ([]*gofeed.Item, error) {
	body, err := s.fetcher.Get(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := s.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", feedURL, err)
	}
	return feed.Items, nil
}

// article converts a feed item, applying the window filter before the
// article page is fetched.
func (s *FeedSource) article(ctx context.Context, item *gofeed.Item, link string, start, end time.Time) (models.Article, bool) {
	a := models.Article{
		Title:   strings.TrimSpace(item.Title),
		URL:     link,
		Source:  s.name,
		Snippet: cleanHTML(item.Description),
	}
	if item.PublishedParsed != nil {
		ts := *item.PublishedParsed
		a.Timestamp = &ts
	} else if item.UpdatedParsed != nil {
		ts := *item.UpdatedParsed
		a.Timestamp = &ts
	}
	if !a.InWindow(start, end) {
		return a, false
	}

	content, err := s.extractor.Extract(ctx, link)
	if err != nil {
		s.logger.Debug().Err(&models.CollaboratorError{Collaborator: "scraper:" + s.name, Item: link, Err: err}).Msg("Skipping article")
		return a, false
	}
	a.Content = content.Text
	if a.Snippet == "" {
		a.Snippet = content.Excerpt
	}
	if a.Title == "" {
		a.Title = content.Title
	}
	return a, true
}
