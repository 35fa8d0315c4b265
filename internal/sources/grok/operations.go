package grok

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lepinkainen/athenaeum/internal/jsonextract"
	"github.com/lepinkainen/athenaeum/internal/models"
	"github.com/lepinkainen/athenaeum/internal/prompts"
)

// TitleSuggestions returns quick title/author completions for a partial
// query, used by the add-book flow. Fails closed.
func (c *Client) TitleSuggestions(ctx context.Context, query string) []models.BookMetadata {
	if !c.usable() {
		return nil
	}

	var suggestions []models.BookMetadata
	if !c.extract(ctx, prompts.BookSuggestions, map[string]string{"query": query}, &suggestions) {
		return nil
	}
	return suggestions
}

// LookupBook finds the single best matching book for a free-form query.
// Returns nil when the key is unusable, the request fails or the response
// is not parseable.
func (c *Client) LookupBook(ctx context.Context, query string) *models.BookMetadata {
	if !c.usable() {
		return nil
	}

	var book models.BookMetadata
	if !c.extract(ctx, prompts.BookSearch, map[string]string{"query": query}, &book) {
		return nil
	}
	if book.Title == "" {
		return nil
	}
	return &book
}

// AuthorFacts returns short facts about an author. Fails closed.
func (c *Client) AuthorFacts(ctx context.Context, author string) []string {
	if !c.usable() {
		return nil
	}

	var parsed struct {
		Facts []string `json:"facts"`
	}
	if !c.extract(ctx, prompts.AuthorFacts, map[string]string{"author": author}, &parsed) {
		return nil
	}
	return parsed.Facts
}

// PodcastEpisodes asks Grok for real podcast episodes about a book, used
// to seed the curated episode list. Episodes without a URL are dropped.
func (c *Client) PodcastEpisodes(ctx context.Context, title, author string) []models.PodcastEpisode {
	if !c.usable() {
		return nil
	}

	var episodes []models.PodcastEpisode
	vars := map[string]string{"title": title, "author": author}
	if !c.extract(ctx, prompts.PodcastEpisodes, vars, &episodes) {
		return nil
	}

	kept := episodes[:0]
	for _, ep := range episodes {
		if ep.URL != "" {
			kept = append(kept, ep)
		}
	}
	return kept
}

// RelatedBooks returns book recommendations with the reason for each
// connection. Fails closed.
func (c *Client) RelatedBooks(ctx context.Context, title, author string) []models.RelatedBook {
	if !c.usable() {
		return nil
	}

	var related []models.RelatedBook
	vars := map[string]string{"title": title, "author": author}
	if !c.extract(ctx, prompts.RelatedBooks, vars, &related) {
		return nil
	}
	return related
}

// extract runs a completion and unmarshals the first JSON value of the
// response into target. Any failure is logged and reported as false.
func (c *Client) extract(ctx context.Context, template string, vars map[string]string, target any) bool {
	content, err := c.complete(ctx, template, vars)
	if err != nil {
		slog.Warn("Grok request failed", "template", template, "error", err)
		return false
	}

	raw, err := jsonextract.First(content)
	if err != nil {
		slog.Warn("Grok response contained no JSON", "template", template, "error", err)
		return false
	}

	if err := json.Unmarshal([]byte(raw), target); err != nil {
		slog.Warn("Grok response JSON did not match expected shape", "template", template, "error", err)
		return false
	}

	return true
}
