// Package models holds the normalized result types shared between the
// source adapters, the cache layer and the enrichment orchestrator.
package models

import "github.com/lepinkainen/athenaeum/internal/bookid"

// Podcast episode source labels, used to partition cached episodes so
// future reads can tell curated results from live Apple results.
const (
	SourceCurated = "curated"
	SourceApple   = "apple"
	// SourceLegacy marks episodes migrated from the old single-column
	// storage format. Kept for backward compatibility with old data.
	SourceLegacy = "legacy"
)

// PodcastEpisode is a normalized podcast episode about a book.
// URL is the dedup key; episodes without a URL are dropped before persistence.
type PodcastEpisode struct {
	Title          string `json:"title"`
	Length         string `json:"length,omitempty"`
	AirDate        string `json:"air_date,omitempty"`
	URL            string `json:"url"`
	AudioURL       string `json:"audio_url,omitempty"`
	Platform       string `json:"platform,omitempty"`
	ShowName       string `json:"show_name,omitempty"`
	EpisodeSummary string `json:"episode_summary"`
	ShowSummary    string `json:"show_summary"`
	ThumbnailURL   string `json:"thumbnail_url,omitempty"`
}

// Article is a scholarly or analysis article about a book.
type Article struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Authors string `json:"authors,omitempty"`
	Year    string `json:"year,omitempty"`
}

// RelatedBook is a book recommendation with the reason for the connection.
type RelatedBook struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Reason   string   `json:"reason"`
	CoverURL string   `json:"cover_url,omitempty"`
	Year     string   `json:"year,omitempty"`
	Genre    string   `json:"genre,omitempty"`
	Links    []string `json:"links,omitempty"`
}

// Video is a YouTube search result about a book or its author.
type Video struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	URL          string `json:"url"`
}

// BookMetadata is a search result for the add-book flow. It is produced
// fresh per search query and never cached.
type BookMetadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        string `json:"year,omitempty"`
	Genre       string `json:"genre,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// CanonicalID returns the canonical identity key for this book.
func (b BookMetadata) CanonicalID() string {
	return bookid.CanonicalID(b.Title, b.Author)
}

// Book is an entry in the user's personal library.
type Book struct {
	ID          int64  `json:"id"`
	User        string `json:"user"`
	CanonicalID string `json:"canonical_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Year        string `json:"year,omitempty"`
	Genre       string `json:"genre,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`
}
