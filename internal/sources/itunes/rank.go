package itunes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/models"
)

// prioritizedShows maps iTunes collection ids of known book-discussion
// podcasts. Episodes from these shows sort ahead of everything else.
var prioritizedShows = map[int64]bool{
	1028908750: true, // Hardcore Literature
	1052374217: true, // Backlisted
	1078369813: true, // Overdue
	1170986392: true, // The Book Review
	1212558767: true, // What Should I Read Next?
	1291474379: true, // Literary Friction
	1439968178: true, // Reading Glasses
	1465767420: true, // The Maris Review
	1511086021: true, // Book Riot - All the Books
	1550170742: true, // Sentimental Garbage
}

const maxEpisodes = 10

// rankEbooks orders ebook results against the query: exact title matches
// first, then titles containing the query, then the rest. Ordering within
// each group is preserved.
func rankEbooks(query string, results []ebookResult) []ebookResult {
	q := strings.ToLower(strings.TrimSpace(query))

	group := func(r ebookResult) int {
		title := strings.ToLower(strings.TrimSpace(r.TrackName))
		switch {
		case title == q:
			return 0
		case strings.Contains(title, q):
			return 1
		default:
			return 2
		}
	}

	ranked := make([]ebookResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return group(ranked[i]) < group(ranked[j])
	})
	return ranked
}

// filterEpisodes keeps episodes whose title or description mentions the
// book title or author, case-insensitively.
func filterEpisodes(title, author string, results []episodeResult) []episodeResult {
	t := strings.ToLower(strings.TrimSpace(title))
	a := strings.ToLower(strings.TrimSpace(author))

	mentions := func(s string) bool {
		s = strings.ToLower(s)
		if t != "" && strings.Contains(s, t) {
			return true
		}
		return a != "" && strings.Contains(s, a)
	}

	var kept []episodeResult
	for _, r := range results {
		if mentions(r.TrackName) || mentions(r.Description) || mentions(r.ShortDescription) {
			kept = append(kept, r)
		}
	}
	return kept
}

// arrangeEpisodes partitions episodes into prioritized shows vs the rest,
// deduplicates each partition by URL preserving order, concatenates
// prioritized-first and caps the result.
func arrangeEpisodes(results []episodeResult) []models.PodcastEpisode {
	var prioritized, other []models.PodcastEpisode
	for _, r := range results {
		ep := toEpisode(r)
		if ep.URL == "" {
			continue
		}
		if prioritizedShows[r.CollectionID] {
			prioritized = append(prioritized, ep)
		} else {
			other = append(other, ep)
		}
	}

	key := func(ep models.PodcastEpisode) string { return ep.URL }
	merged := append(bookid.DedupBy(prioritized, key), bookid.DedupBy(other, key)...)
	merged = bookid.DedupBy(merged, key)

	if len(merged) > maxEpisodes {
		merged = merged[:maxEpisodes]
	}
	return merged
}

func toEpisode(r episodeResult) models.PodcastEpisode {
	thumb := r.ArtworkURL600
	if thumb == "" {
		thumb = r.ArtworkURL160
	}
	return models.PodcastEpisode{
		Title:          r.TrackName,
		Length:         lengthFromMillis(r.TrackTimeMillis),
		AirDate:        dateOnly(r.ReleaseDate),
		URL:            r.TrackViewURL,
		AudioURL:       r.EpisodeURL,
		Platform:       "Apple Podcasts",
		ShowName:       r.CollectionName,
		EpisodeSummary: r.Description,
		ThumbnailURL:   thumb,
	}
}

func lengthFromMillis(millis int64) string {
	if millis <= 0 {
		return ""
	}
	minutes := millis / 60000
	if minutes < 1 {
		minutes = 1
	}
	return formatMinutes(minutes)
}

func formatMinutes(minutes int64) string {
	if minutes >= 60 {
		h, m := minutes/60, minutes%60
		if m == 0 {
			return fmt.Sprintf("%d hr", h)
		}
		return fmt.Sprintf("%d hr %d min", h, m)
	}
	return fmt.Sprintf("%d min", minutes)
}

// dateOnly trims an RFC3339 timestamp down to its date part.
func dateOnly(ts string) string {
	if idx := strings.IndexByte(ts, 'T'); idx > 0 {
		return ts[:idx]
	}
	return ts
}
