// Package scholar scrapes Google Scholar for articles about a book.
//
// Scholar has no API and actively blocks scrapers, so requests go through
// a chain of public CORS proxies tried in order. When every strategy
// fails, Search returns a single fallback article linking to the Scholar
// search page; callers must not cache it (see IsFallback).
package scholar

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/lepinkainen/athenaeum/internal/fetch"
	"github.com/lepinkainen/athenaeum/internal/models"
)

const (
	scholarSearchURL = "https://scholar.google.com/scholar?q=%s"
	perProxyTimeout  = 8 * time.Second

	// fallbackTitlePrefix marks the synthetic result returned when every
	// proxy strategy fails. Fallback articles are never cached.
	fallbackTitlePrefix = "Search Google Scholar for "
)

// proxy wraps a target URL in a public fetch-proxy request.
type proxy struct {
	name string
	wrap func(target string) string
}

var defaultProxies = []proxy{
	{"allorigins", func(target string) string {
		return "https://api.allorigins.win/raw?url=" + url.QueryEscape(target)
	}},
	{"corsproxy", func(target string) string {
		return "https://corsproxy.io/?url=" + url.QueryEscape(target)
	}},
	{"codetabs", func(target string) string {
		return "https://api.codetabs.com/v1/proxy?quest=" + url.QueryEscape(target)
	}},
}

// Client scrapes Google Scholar through a proxy chain.
type Client struct {
	fetcher *fetch.Client
	proxies []proxy
	timeout time.Duration
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithFetcher sets a custom retrying HTTP client.
func WithFetcher(f *fetch.Client) Option {
	return func(c *Client) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// WithProxies replaces the proxy strategy chain.
func WithProxies(proxies []proxy) Option {
	return func(c *Client) {
		if len(proxies) > 0 {
			c.proxies = proxies
		}
	}
}

// WithProxy builds a single-entry proxy chain, mainly for tests.
func WithProxy(name string, wrap func(target string) string) Option {
	return WithProxies([]proxy{{name, wrap}})
}

// WithTimeout sets the per-proxy timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a Scholar client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		// Scrapes get blocked often enough that per-proxy retries just
		// burn time; move on to the next strategy instead.
		fetcher: fetch.New(fetch.WithRetries(1)),
		proxies: defaultProxies,
		timeout: perProxyTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Search scrapes Scholar for articles about the book. Proxies are tried
// in order and the first one yielding parseable results wins. On total
// failure a single fallback article pointing at the Scholar search page
// is returned.
func (c *Client) Search(ctx context.Context, title, author string) []models.Article {
	query := strings.TrimSpace(title + " " + author)
	target := fmt.Sprintf(scholarSearchURL, url.QueryEscape(query))

	for _, p := range c.proxies {
		articles, err := c.searchVia(ctx, p, target)
		if err != nil {
			slog.Debug("Scholar proxy failed", "proxy", p.name, "error", err)
			continue
		}
		if len(articles) > 0 {
			return articles
		}
		slog.Debug("Scholar proxy returned no parseable results", "proxy", p.name)
	}

	slog.Warn("All Scholar strategies failed, returning fallback link", "query", query)
	return []models.Article{Fallback(title, author)}
}

func (c *Client) searchVia(ctx context.Context, p proxy, target string) ([]models.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.fetcher.Get(ctx, p.wrap(target))
	if err != nil {
		return nil, err
	}

	return parseResults(string(body)), nil
}

// Fallback builds the synthetic article returned when scraping fails.
func Fallback(title, author string) models.Article {
	query := strings.TrimSpace(title + " " + author)
	return models.Article{
		Title:   fallbackTitlePrefix + `"` + title + `"`,
		URL:     fmt.Sprintf(scholarSearchURL, url.QueryEscape(query)),
		Snippet: "Automated search was blocked. Follow the link to browse results directly.",
	}
}

// IsFallback reports whether an article is the synthetic blocked-scrape
// fallback. Fallback articles must not be cached.
func IsFallback(a models.Article) bool {
	return strings.HasPrefix(a.Title, fallbackTitlePrefix)
}
