package cache

// SQL schemas for enrichment cache tables.
// All tables key rows by the canonical book id ("title|author", normalized).
// The podcast table carries a source column so cached curated results stay
// distinguishable from live Apple results and legacy single-column data.

// PodcastCacheSchema defines the schema for podcast episode lists,
// partitioned by source (curated/apple/legacy).
const PodcastCacheSchema = `
CREATE TABLE IF NOT EXISTS podcast_cache (
	cache_key TEXT NOT NULL,
	source TEXT NOT NULL,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (cache_key, source)
);

CREATE INDEX IF NOT EXISTS idx_podcast_updated_at ON podcast_cache(updated_at);
`

// ScholarCacheSchema defines the schema for scholarly article lists.
const ScholarCacheSchema = `
CREATE TABLE IF NOT EXISTS scholar_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scholar_updated_at ON scholar_cache(updated_at);
`

// RelatedCacheSchema defines the schema for related book recommendations.
const RelatedCacheSchema = `
CREATE TABLE IF NOT EXISTS related_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_related_updated_at ON related_cache(updated_at);
`

// FactsCacheSchema defines the schema for author fact lists.
const FactsCacheSchema = `
CREATE TABLE IF NOT EXISTS facts_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_facts_updated_at ON facts_cache(updated_at);
`

// VideoCacheSchema defines the schema for YouTube video lists.
const VideoCacheSchema = `
CREATE TABLE IF NOT EXISTS video_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_video_updated_at ON video_cache(updated_at);
`

// Cache table names, one per enrichment type.
const (
	TablePodcasts = "podcast_cache"
	TableScholar  = "scholar_cache"
	TableRelated  = "related_cache"
	TableFacts    = "facts_cache"
	TableVideos   = "video_cache"
)

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	PodcastCacheSchema,
	ScholarCacheSchema,
	RelatedCacheSchema,
	FactsCacheSchema,
	VideoCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names,
// used to prevent SQL injection when interpolating table names.
var ValidCacheTableNames = map[string]bool{
	TablePodcasts: true,
	TableScholar:  true,
	TableRelated:  true,
	TableFacts:    true,
	TableVideos:   true,
}

// partitionedTables are tables whose primary key includes a source column.
var partitionedTables = map[string]bool{
	TablePodcasts: true,
}
