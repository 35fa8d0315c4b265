// Package youtube searches the YouTube Data API v3 for videos about a
// book and its author.
package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/config"
	"github.com/lepinkainen/athenaeum/internal/fetch"
	"github.com/lepinkainen/athenaeum/internal/models"
	"github.com/lepinkainen/athenaeum/internal/ratelimit"
)

const (
	defaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	perQueryResults   = 10
	maxVideos         = 10
	defaultRatePerSec = 3
	watchURLPrefix    = "https://www.youtube.com/watch?v="
)

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Client queries the YouTube Data API.
type Client struct {
	fetcher *fetch.Client
	limiter *ratelimit.Limiter
	baseURL string
	apiKey  string
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

// NewClient creates a YouTube client. An unusable API key does not fail
// construction; Search short-circuits to empty instead.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		fetcher: fetch.New(),
		limiter: ratelimit.New("YouTube", defaultRatePerSec),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Search runs two queries — the book itself and author interviews — and
// merges the results, deduplicated by video id and capped at 10.
// Fails closed.
func (c *Client) Search(ctx context.Context, title, author string) []models.Video {
	if !config.HasUsableKey(c.apiKey) {
		slog.Debug("YouTube API key missing or placeholder, skipping search")
		return nil
	}

	queries := []string{
		strings.TrimSpace(title + " " + author),
		strings.TrimSpace(author + " interview"),
	}

	var merged []models.Video
	for _, q := range queries {
		videos, err := c.search(ctx, q)
		if err != nil {
			slog.Warn("YouTube search failed", "query", q, "error", err)
			continue
		}
		merged = append(merged, videos...)
	}

	merged = bookid.DedupBy(merged, func(v models.Video) string { return v.VideoID })
	if len(merged) > maxVideos {
		merged = merged[:maxVideos]
	}
	return merged
}

func (c *Client) search(ctx context.Context, query string) ([]models.Video, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"%s/search?part=snippet&type=video&maxResults=%d&q=%s&key=%s",
		c.baseURL, perQueryResults, url.QueryEscape(query), url.QueryEscape(c.apiKey),
	)

	var resp searchResponse
	if err := c.fetcher.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, models.Video{
			VideoID:      item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
			URL:          watchURLPrefix + item.ID.VideoID,
		})
	}
	return videos, nil
}
