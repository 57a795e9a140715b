package datasource

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/seenimoa/newspulse/pkg/models"
)

// Source names accepted by Sources.
const (
	SourceYahoo       = "yahoo"
	SourceMarketWatch = "marketwatch"
	SourceCNBC        = "cnbc"
	SourceReuters     = "reuters"
)

// ReutersFeeds are the Reuters RSS feeds.
var ReutersFeeds = []string{
	"https://www.reuters.com/rssfeed/business",
	"https://www.reuters.com/rssfeed/marketsNews",
	"https://www.reuters.com/rssfeed/companyNews",
	"https://www.reuters.com/rssfeed/stocksNews",
}

// MarketWatchFeeds are the MarketWatch RSS feeds.
var MarketWatchFeeds = []string{
	"https://www.marketwatch.com/rss/topstories",
	"https://www.marketwatch.com/rss/marketpulse",
	"https://www.marketwatch.com/rss/StockstoWatch",
	"https://www.marketwatch.com/rss/realtimeheadlines",
}

// YahooListing reads the Yahoo Finance news sections.
var YahooListing = ListingConfig{
	BaseURL:      "https://finance.yahoo.com",
	Pages:        []string{"/news", "/topic/stock-market-news", "/topic/economic-news", "/topic/earnings"},
	Domain:       "finance.yahoo.com",
	ItemSelector: "div.Cf li.js-stream-content",
	LinkSelector: "h3 a, h4 a",
	TimeSelector: `[class~="C(#959595)"] span`,
}

// CNBCListing reads the CNBC section fronts.
var CNBCListing = ListingConfig{
	BaseURL:          "https://www.cnbc.com",
	Pages:            []string{"/markets", "/business-news", "/investing", "/finance"},
	Domain:           "cnbc.com",
	ItemSelector:     "div.Card-standardBreakerCard, div.Card-marketsBreakerCard, div.Card-categoryCard",
	LinkSelector:     "a.Card-title",
	TimeSelector:     "span.Card-time",
	MetaTimeFallback: true,
}

// SourceConfig holds the settings shared by all scrapers of a run.
type SourceConfig struct {
	Fetcher         FetcherConfig
	ContentCacheTTL time.Duration
}

// SourceNames lists the registered source names, sorted.
func SourceNames() []string {
	names := []string{SourceYahoo, SourceMarketWatch, SourceCNBC, SourceReuters}
	sort.Strings(names)
	return names
}

// Sources builds the scrapers for names. All scrapers share one Fetcher and
// one content cache. An unknown name is a ConfigError.
func Sources(names []string, cfg SourceConfig, logger arbor.ILogger) ([]Scraper, error) {
	fetcher := NewFetcher(cfg.Fetcher)
	extractor := NewContentExtractor(fetcher, cfg.ContentCacheTTL)

	seen := make(map[string]bool)
	var scrapers []Scraper
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case SourceYahoo:
			scrapers = append(scrapers, NewListingSource("Yahoo Finance", YahooListing, fetcher, extractor, logger))
		case SourceCNBC:
			scrapers = append(scrapers, NewListingSource("CNBC", CNBCListing, fetcher, extractor, logger))
		case SourceMarketWatch:
			scrapers = append(scrapers, NewFeedSource("MarketWatch", MarketWatchFeeds, fetcher, extractor, logger))
		case SourceReuters:
			scrapers = append(scrapers, NewFeedSource("Reuters", ReutersFeeds, fetcher, extractor, logger))
		default:
			return nil, &models.ConfigError{
				Path: "sources",
				Err:  fmt.Errorf("%w %q (known: %s)", ErrUnknownSource, raw, strings.Join(SourceNames(), ", ")),
			}
		}
	}
	return scrapers, nil
}
