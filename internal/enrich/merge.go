package enrich

import (
	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/models"
)

// mergePodcasts concatenates episode lists in priority order — curated,
// then Apple, then the deprecated legacy column — and deduplicates by URL
// keeping the first occurrence, so the earliest-priority source wins on
// collision. The merge order is fixed regardless of which fetch finished
// first.
func mergePodcasts(curated, apple, legacy []models.PodcastEpisode) []models.PodcastEpisode {
	merged := make([]models.PodcastEpisode, 0, len(curated)+len(apple)+len(legacy))
	merged = append(merged, curated...)
	merged = append(merged, apple...)
	merged = append(merged, legacy...)

	return bookid.DedupBy(merged, func(ep models.PodcastEpisode) string { return ep.URL })
}
