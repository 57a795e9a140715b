package datasource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	readability "github.com/go-shiori/go-readability"
)

// maxPageBytes caps how much of an article page is read.
const maxPageBytes = 4 << 20

// Content is the readable text extracted from an article page.
type Content struct {
	Title     string
	Text      string
	Excerpt   string
	Published *time.Time // from article:published_time, when present
}

// ContentExtractor downloads article pages and extracts their main text.
// Results are cached by URL.
type ContentExtractor struct {
	fetcher *Fetcher
	cache   *Cache
}

// NewContentExtractor creates an extractor. A zero ttl disables caching.
func NewContentExtractor(fetcher *Fetcher, ttl time.Duration) *ContentExtractor {
	e := &ContentExtractor{fetcher: fetcher}
	if ttl > 0 {
		e.cache = NewCache(ttl)
	}
	return e
}

// Extract fetches rawURL and returns its readable content.
func (e *ContentExtractor) Extract(ctx context.Context, rawURL string) (*Content, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(rawURL); ok {
			return cached.(*Content), nil
		}
	}

	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" {
		return nil, fmt.Errorf("invalid article URL %q", rawURL)
	}

	body, err := e.fetcher.Get(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	page, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", rawURL, err)
	}

	c := &Content{
		Title:   strings.TrimSpace(article.Title),
		Text:    collapseSpace(article.TextContent),
		Excerpt: collapseSpace(article.Excerpt),
	}
	if c.Text == "" {
		return nil, fmt.Errorf("extract %s: no readable text", rawURL)
	}
	c.Published = publishedTime(page)

	if e.cache != nil {
		e.cache.Set(rawURL, c)
	}
	return c, nil
}

// Prune drops expired pages from the cache and returns how many remain.
func (e *ContentExtractor) Prune() int {
	if e.cache == nil {
		return 0
	}
	e.cache.Cleanup()
	return e.cache.Len()
}

// publishedTime reads the article:published_time meta tag.
func publishedTime(page []byte) *time.Time {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil
	}
	raw, ok := doc.Find(`meta[property="article:published_time"]`).First().Attr("content")
	if !ok {
		return nil
	}
	t, err := dateparse.ParseAny(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &t
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
