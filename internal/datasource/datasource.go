// Package datasource scrapes financial news sites into normalized articles.
// It defines the Scraper interface and implements RSS feed sources and HTML
// listing-page sources, plus the shared HTTP, rate limiting, caching and
// article-content extraction they use.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/seenimoa/newspulse/pkg/models"
)

// Scraper fetches the articles a source published within a date window.
// Implementations are best effort: per-article failures are logged and
// skipped, and only a failure of the whole source is returned.
type Scraper interface {
	// Name returns the human-readable source name, e.g. "Reuters".
	Name() string

	// Scrape returns the articles published in [start, end]. Articles
	// without a usable timestamp are included.
	Scrape(ctx context.Context, start, end time.Time) ([]models.Article, error)
}

// --- Sentinel errors ---

// ErrUnknownSource is returned when a source name is not registered.
var ErrUnknownSource = errors.New("unknown news source")

// ErrNoArticles is returned when every page of a source failed to load.
var ErrNoArticles = errors.New("no pages could be fetched")

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// --- Shared HTTP client helpers ---

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Timeout    time.Duration
	RatePerSec float64 // sustained requests per second; <= 0 disables limiting
	Burst      int
	UserAgent  string
}

// DefaultFetcherConfig returns the defaults used by the CLI.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:    30 * time.Second,
		RatePerSec: 2,
		Burst:      2,
		UserAgent:  DefaultUserAgent,
	}
}

// Fetcher performs rate-limited HTTP GETs. One Fetcher is shared by all
// scrapers of a run so the limit applies across sources.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewFetcher creates a Fetcher from cfg.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: cfg.UserAgent,
	}
}

// Get waits for the rate limiter and fetches url. The caller closes the
// returned body.
func (f *Fetcher) Get(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return f.doGet(ctx, url, headers)
}

// doGet performs a GET request with the given URL and headers, returning the response body.
func (f *Fetcher) doGet(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html, application/rss+xml, application/xml, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}

// --- Simple in-memory cache ---

// CacheEntry holds a cached value with expiration.
type CacheEntry struct {
	Value     any
	ExpiresAt time.Time
}

// Cache is a simple thread-safe in-memory cache with TTL. Scrapers use it
// to avoid extracting the same article twice when it appears in several
// feeds or sections.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	ttl     time.Duration
}

// NewCache creates a new cache with the given default TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]CacheEntry),
		ttl:     ttl,
	}
}

// Get retrieves a value from the cache. Returns nil, false if not found or expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Value, true
}

// Set stores a value in the cache with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = CacheEntry{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	now := time.Now()
	for k, v := range c.entries {
		if now.After(v.ExpiresAt) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}
