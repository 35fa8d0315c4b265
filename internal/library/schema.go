package library

// BooksSchema defines the user's personal book library.
// (user, canonical_id) is unique: two books with the same normalized
// title and author are the same book for library purposes.
//
// legacy_podcasts holds podcast episodes from the old single-column
// storage format as a JSON array. New writes go to the partitioned
// podcast cache; this column is only read during merges.
const BooksSchema = `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user TEXT NOT NULL,
	canonical_id TEXT NOT NULL,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	year TEXT,
	genre TEXT,
	cover_url TEXT,
	legacy_podcasts TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (user, canonical_id)
);

CREATE INDEX IF NOT EXISTS idx_books_user ON books(user);
`

// CuratedEpisodesSchema defines the pre-vetted list of book-discussion
// podcast episodes maintained in the database, as opposed to episodes
// discovered live through Apple's search API.
const CuratedEpisodesSchema = `
CREATE TABLE IF NOT EXISTS curated_episodes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	canonical_id TEXT NOT NULL,
	title TEXT NOT NULL,
	url TEXT NOT NULL,
	length TEXT,
	air_date TEXT,
	platform TEXT,
	show_name TEXT,
	episode_summary TEXT NOT NULL,
	show_summary TEXT NOT NULL,
	thumbnail_url TEXT,
	added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (canonical_id, url)
);

CREATE INDEX IF NOT EXISTS idx_curated_canonical ON curated_episodes(canonical_id);
`

// AllSchemas contains all library table schemas for easy initialization.
var AllSchemas = []string{
	BooksSchema,
	CuratedEpisodesSchema,
}
