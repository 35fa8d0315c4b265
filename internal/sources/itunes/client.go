// Package itunes searches the iTunes Search API for ebooks and for
// podcast episodes discussing a book. The API is unauthenticated.
package itunes

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/lepinkainen/athenaeum/internal/fetch"
	"github.com/lepinkainen/athenaeum/internal/models"
	"github.com/lepinkainen/athenaeum/internal/ratelimit"
)

const (
	defaultBaseURL    = "https://itunes.apple.com"
	ebookLimit        = 10
	episodeLimit      = 50
	defaultRatePerSec = 3
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Client queries the iTunes Search API.
type Client struct {
	fetcher *fetch.Client
	limiter *ratelimit.Limiter
	baseURL string
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

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// NewClient creates a new iTunes client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		fetcher: fetch.New(),
		limiter: ratelimit.New("iTunes", defaultRatePerSec),
		baseURL: defaultBaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// SearchEbooks looks up ebooks matching the query, best matches first.
// Fails closed: errors are logged and an empty list returned.
func (c *Client) SearchEbooks(ctx context.Context, query string) []models.BookMetadata {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	endpoint := fmt.Sprintf(
		"%s/search?term=%s&media=ebook&limit=%d",
		c.baseURL, url.QueryEscape(query), ebookLimit,
	)

	var resp ebookResponse
	if err := c.fetcher.GetJSON(ctx, endpoint, &resp); err != nil {
		slog.Warn("iTunes ebook search failed", "query", query, "error", err)
		return nil
	}

	ranked := rankEbooks(query, resp.Results)
	books := make([]models.BookMetadata, 0, len(ranked))
	for _, r := range ranked {
		books = append(books, toBook(r))
	}
	return books
}

// SearchEpisodes looks up podcast episodes that mention the book title or
// author, prioritized shows first, deduplicated by URL and capped at 10.
// Fails closed.
func (c *Client) SearchEpisodes(ctx context.Context, title, author string) []models.PodcastEpisode {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil
	}

	term := strings.TrimSpace(title + " " + author)
	endpoint := fmt.Sprintf(
		"%s/search?term=%s&media=podcast&entity=podcastEpisode&limit=%d",
		c.baseURL, url.QueryEscape(term), episodeLimit,
	)

	var resp episodeResponse
	if err := c.fetcher.GetJSON(ctx, endpoint, &resp); err != nil {
		slog.Warn("iTunes episode search failed", "title", title, "author", author, "error", err)
		return nil
	}

	return arrangeEpisodes(filterEpisodes(title, author, resp.Results))
}

func toBook(r ebookResult) models.BookMetadata {
	book := models.BookMetadata{
		Title:       r.TrackName,
		Author:      r.ArtistName,
		Year:        yearPattern.FindString(r.ReleaseDate),
		CoverURL:    upscaleArtwork(r.ArtworkURL100),
		SourceURL:   r.TrackViewURL,
		Description: r.Description,
	}
	if len(r.Genres) > 0 {
		book.Genre = r.Genres[0]
	}
	return book
}

// upscaleArtwork asks the artwork CDN for a larger rendition. The 100x100
// thumbnail URL encodes its size in the path.
func upscaleArtwork(artworkURL string) string {
	return strings.Replace(artworkURL, "100x100", "600x600", 1)
}
