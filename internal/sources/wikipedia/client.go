// Package wikipedia searches Wikipedia for books and resolves structured
// metadata (author, year, genre, ISBN) through the linked Wikidata entity.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lepinkainen/athenaeum/internal/fetch"
	"github.com/lepinkainen/athenaeum/internal/models"
	"github.com/lepinkainen/athenaeum/internal/ratelimit"
)

const (
	defaultWikidataBase = "https://www.wikidata.org"
	searchLimit         = 7
	maxCandidates       = 6
	defaultRatePerSec   = 5
)

// Client is a Wikipedia/Wikidata book search client.
type Client struct {
	fetcher      *fetch.Client
	limiter      *ratelimit.Limiter
	wikiBase     string // overrides per-language base when set (tests)
	wikidataBase string
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

// WithWikiBase overrides the per-language Wikipedia base URL.
func WithWikiBase(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.wikiBase = strings.TrimSuffix(base, "/")
		}
	}
}

// WithWikidataBase overrides the Wikidata base URL.
func WithWikidataBase(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.wikidataBase = strings.TrimSuffix(base, "/")
		}
	}
}

// NewClient creates a new Wikipedia client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		fetcher:      fetch.New(),
		limiter:      ratelimit.New("Wikipedia", defaultRatePerSec),
		wikidataBase: defaultWikidataBase,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *Client) base(lang string) string {
	if c.wikiBase != "" {
		return c.wikiBase
	}
	return fmt.Sprintf("https://%s.wikipedia.org", lang)
}

// Search performs a full-text book search and returns up to 6 candidates
// with metadata resolved from page summaries and Wikidata claims.
// Search fails closed: any internal error is logged and an empty list
// returned.
func (c *Client) Search(ctx context.Context, query string) []models.BookMetadata {
	results, err := c.search(ctx, query)
	if err != nil {
		slog.Warn("Wikipedia search failed", "query", query, "error", err)
		return nil
	}
	return results
}

// Lookup finds the single best matching book page for a title,
// preferring candidates with book-like keyword hints. Fails closed.
func (c *Client) Lookup(ctx context.Context, title string) *models.BookMetadata {
	lang := DetectLang(title)

	hits, err := c.searchHits(ctx, lang, title)
	if err != nil {
		slog.Warn("Wikipedia lookup failed", "title", title, "error", err)
		return nil
	}

	hit := pickCandidate(lang, hits)
	if hit == nil {
		return nil
	}

	meta, err := c.buildMetadata(ctx, lang, *hit)
	if err != nil {
		slog.Warn("Wikipedia metadata resolution failed", "title", hit.Title, "error", err)
		return nil
	}
	return meta
}

func (c *Client) search(ctx context.Context, query string) ([]models.BookMetadata, error) {
	lang := DetectLang(query)

	hits, err := c.searchHits(ctx, lang, query)
	if err != nil {
		return nil, err
	}
	if len(hits) > maxCandidates {
		hits = hits[:maxCandidates]
	}

	results := make([]models.BookMetadata, 0, len(hits))
	for _, hit := range hits {
		meta, err := c.buildMetadata(ctx, lang, hit)
		if err != nil {
			// One bad page should not sink the whole candidate list.
			slog.Debug("Skipping candidate", "title", hit.Title, "error", err)
			continue
		}
		results = append(results, *meta)
	}

	return results, nil
}

func (c *Client) searchHits(ctx context.Context, lang, query string) ([]searchHit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"%s/w/api.php?action=query&list=search&format=json&srlimit=%d&srsearch=%s",
		c.base(lang), searchLimit, url.QueryEscape(query),
	)

	var resp searchResponse
	if err := c.fetcher.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("wikipedia search request failed: %w", err)
	}

	hits := resp.Query.Search
	for i := range hits {
		hits[i].Snippet = stripMarkup(hits[i].Snippet)
	}
	return hits, nil
}

func (c *Client) buildMetadata(ctx context.Context, lang string, hit searchHit) (*models.BookMetadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", c.base(lang), url.PathEscape(hit.Title))

	var summary summaryResponse
	if err := c.fetcher.GetJSON(ctx, endpoint, &summary); err != nil {
		return nil, fmt.Errorf("summary request failed: %w", err)
	}

	meta := &models.BookMetadata{
		Title:       summary.Title,
		CoverURL:    summary.Thumbnail.Source,
		SourceURL:   summary.ContentURLs.Desktop.Page,
		Description: summary.Extract,
	}
	if meta.Title == "" {
		meta.Title = hit.Title
	}

	if summary.WikibaseItem != "" {
		if err := c.applyWikidata(ctx, lang, summary.WikibaseItem, meta); err != nil {
			slog.Debug("Wikidata resolution failed, using fallback heuristics", "qid", summary.WikibaseItem, "error", err)
		}
	}

	if meta.Author == "" {
		meta.Author = authorFromExtract(summary.Extract)
	}

	return meta, nil
}

// applyWikidata fills author, year, genre and ISBN from the entity claims.
func (c *Client) applyWikidata(ctx context.Context, lang, qid string, meta *models.BookMetadata) error {
	ent, err := c.getEntity(ctx, qid)
	if err != nil {
		return err
	}

	if authorID := entityIDClaim(ent.Claims, propAuthor); authorID != "" {
		if label, err := c.getLabel(ctx, lang, authorID); err == nil && label != "" {
			meta.Author = label
		}
	}

	if t := timeClaim(ent.Claims, propPublished); t != "" {
		meta.Year = yearFromClaim(t)
	} else if t := timeClaim(ent.Claims, propInception); t != "" {
		meta.Year = yearFromClaim(t)
	}

	if genreID := entityIDClaim(ent.Claims, propGenre); genreID != "" {
		if label, err := c.getLabel(ctx, lang, genreID); err == nil {
			meta.Genre = firstWord(label)
		}
	}

	if isbn := stringClaim(ent.Claims, propISBN13); isbn != "" {
		meta.ISBN = isbn
	} else if isbn := stringClaim(ent.Claims, propISBN10); isbn != "" {
		meta.ISBN = isbn
	}

	return nil
}

func (c *Client) getEntity(ctx context.Context, qid string) (*entity, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf(
		"%s/w/api.php?action=wbgetentities&ids=%s&props=claims&format=json",
		c.wikidataBase, url.QueryEscape(qid),
	)

	var resp entitiesResponse
	if err := c.fetcher.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("wikidata entity request failed: %w", err)
	}

	ent, ok := resp.Entities[qid]
	if !ok {
		return nil, fmt.Errorf("entity %s not in response", qid)
	}
	return &ent, nil
}

// getLabel resolves an entity id to its label, preferring the search
// language and falling back to English.
func (c *Client) getLabel(ctx context.Context, lang, qid string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf(
		"%s/w/api.php?action=wbgetentities&ids=%s&props=labels&languages=%s|en&format=json",
		c.wikidataBase, url.QueryEscape(qid), lang,
	)

	var resp entitiesResponse
	if err := c.fetcher.GetJSON(ctx, endpoint, &resp); err != nil {
		return "", fmt.Errorf("wikidata label request failed: %w", err)
	}

	ent, ok := resp.Entities[qid]
	if !ok {
		return "", fmt.Errorf("entity %s not in response", qid)
	}

	for _, l := range []string{lang, "en"} {
		if label, ok := ent.Labels[l]; ok {
			if value, ok := label["value"].(string); ok {
				return value, nil
			}
		}
	}

	return "", nil
}

func entityIDClaim(claims map[string][]claim, prop string) string {
	for _, cl := range claims[prop] {
		var v entityIDValue
		if err := json.Unmarshal(cl.Mainsnak.Datavalue.Value, &v); err == nil && v.ID != "" {
			return v.ID
		}
	}
	return ""
}

func timeClaim(claims map[string][]claim, prop string) string {
	for _, cl := range claims[prop] {
		var v timeValue
		if err := json.Unmarshal(cl.Mainsnak.Datavalue.Value, &v); err == nil && v.Time != "" {
			return v.Time
		}
	}
	return ""
}

func stringClaim(claims map[string][]claim, prop string) string {
	for _, cl := range claims[prop] {
		var v string
		if err := json.Unmarshal(cl.Mainsnak.Datavalue.Value, &v); err == nil && v != "" {
			return v
		}
	}
	return ""
}
