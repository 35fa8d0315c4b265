// Package library implements the persistent book library and the curated
// podcast episode list.
package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/models"
)

// ErrDuplicateBook is returned when a book with the same canonical id
// already exists in the user's library.
var ErrDuplicateBook = errors.New("book already in library")

// ErrBookNotFound is returned when a book cannot be found by canonical id.
var ErrBookNotFound = errors.New("book not found in library")

// Store provides access to the library database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the library database and initializes its tables.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to library database: %w", err), closeErr)
	}

	for _, schema := range AllSchemas {
		if _, err := db.Exec(schema); err != nil {
			closeErr := db.Close()
			return nil, errors.Join(fmt.Errorf("failed to create library table: %w", err), closeErr)
		}
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddBook inserts a book into the user's library. The canonical id is
// derived from the normalized title and author; adding the same book
// twice (modulo case and whitespace) returns ErrDuplicateBook.
func (s *Store) AddBook(user string, meta models.BookMetadata) (*models.Book, error) {
	canonicalID := meta.CanonicalID()

	// Check first so the common duplicate case gets a clean error instead
	// of a constraint violation.
	var existing int64
	err := s.db.QueryRow("SELECT id FROM books WHERE user = ? AND canonical_id = ?", user, canonicalID).Scan(&existing)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBook, canonicalID)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check for existing book: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO books (user, canonical_id, title, author, year, genre, cover_url) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user, canonicalID, meta.Title, meta.Author, meta.Year, meta.Genre, meta.CoverURL,
	)
	if err != nil {
		// Concurrent insert between the check and this statement.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBook, canonicalID)
		}
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted book id: %w", err)
	}

	slog.Info("Book added to library", "user", user, "canonical_id", canonicalID)

	return &models.Book{
		ID:          id,
		User:        user,
		CanonicalID: canonicalID,
		Title:       meta.Title,
		Author:      meta.Author,
		Year:        meta.Year,
		Genre:       meta.Genre,
		CoverURL:    meta.CoverURL,
	}, nil
}

// GetBook looks up a book by user and canonical id.
func (s *Store) GetBook(user, canonicalID string) (*models.Book, error) {
	var book models.Book
	var year, genre, coverURL sql.NullString
	err := s.db.QueryRow(
		"SELECT id, user, canonical_id, title, author, year, genre, cover_url FROM books WHERE user = ? AND canonical_id = ?",
		user, canonicalID,
	).Scan(&book.ID, &book.User, &book.CanonicalID, &book.Title, &book.Author, &year, &genre, &coverURL)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, canonicalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up book: %w", err)
	}

	book.Year = year.String
	book.Genre = genre.String
	book.CoverURL = coverURL.String
	return &book, nil
}

// ListBooks returns all books in the user's library, oldest first.
func (s *Store) ListBooks(user string) ([]models.Book, error) {
	rows, err := s.db.Query(
		"SELECT id, user, canonical_id, title, author, year, genre, cover_url FROM books WHERE user = ? ORDER BY id",
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []models.Book
	for rows.Next() {
		var book models.Book
		var year, genre, coverURL sql.NullString
		if err := rows.Scan(&book.ID, &book.User, &book.CanonicalID, &book.Title, &book.Author, &year, &genre, &coverURL); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		book.Year = year.String
		book.Genre = genre.String
		book.CoverURL = coverURL.String
		books = append(books, book)
	}

	return books, rows.Err()
}

// CuratedEpisodes returns the pre-vetted podcast episodes for a book.
func (s *Store) CuratedEpisodes(title, author string) ([]models.PodcastEpisode, error) {
	canonicalID := bookid.CanonicalID(title, author)

	rows, err := s.db.Query(
		`SELECT title, url, length, air_date, platform, show_name, episode_summary, show_summary, thumbnail_url
		 FROM curated_episodes WHERE canonical_id = ? ORDER BY id`,
		canonicalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query curated episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var episodes []models.PodcastEpisode
	for rows.Next() {
		var ep models.PodcastEpisode
		var length, airDate, platform, showName, thumbnail sql.NullString
		if err := rows.Scan(&ep.Title, &ep.URL, &length, &airDate, &platform, &showName, &ep.EpisodeSummary, &ep.ShowSummary, &thumbnail); err != nil {
			return nil, fmt.Errorf("failed to scan curated episode: %w", err)
		}
		ep.Length = length.String
		ep.AirDate = airDate.String
		ep.Platform = platform.String
		ep.ShowName = showName.String
		ep.ThumbnailURL = thumbnail.String
		episodes = append(episodes, ep)
	}

	return episodes, rows.Err()
}

// AddCuratedEpisode inserts an episode into the curated list.
// Episodes without a URL are rejected; the URL is the dedup key and an
// episode already present for the book is silently skipped.
func (s *Store) AddCuratedEpisode(title, author string, ep models.PodcastEpisode) error {
	if ep.URL == "" {
		return fmt.Errorf("curated episode requires a url")
	}
	canonicalID := bookid.CanonicalID(title, author)

	_, err := s.db.Exec(
		`INSERT INTO curated_episodes
		 (canonical_id, title, url, length, air_date, platform, show_name, episode_summary, show_summary, thumbnail_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		canonicalID, ep.Title, ep.URL, ep.Length, ep.AirDate, ep.Platform, ep.ShowName,
		ep.EpisodeSummary, ep.ShowSummary, ep.ThumbnailURL,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			slog.Debug("Curated episode already present", "canonical_id", canonicalID, "url", ep.URL)
			return nil
		}
		return fmt.Errorf("failed to insert curated episode: %w", err)
	}

	return nil
}

// LegacyPodcasts reads podcast episodes stored in the deprecated
// single-column format on the book row. Returns nil when the column is
// empty or unparseable; legacy data is best-effort only.
func (s *Store) LegacyPodcasts(user, canonicalID string) []models.PodcastEpisode {
	var payload sql.NullString
	err := s.db.QueryRow(
		"SELECT legacy_podcasts FROM books WHERE user = ? AND canonical_id = ?",
		user, canonicalID,
	).Scan(&payload)
	if err != nil || !payload.Valid || payload.String == "" {
		return nil
	}

	var episodes []models.PodcastEpisode
	if err := json.Unmarshal([]byte(payload.String), &episodes); err != nil {
		slog.Warn("Failed to parse legacy podcast column", "canonical_id", canonicalID, "error", err)
		return nil
	}
	return episodes
}

// SetLegacyPodcasts writes the deprecated single-column format.
// Only used by tests and migration tooling.
func (s *Store) SetLegacyPodcasts(user, canonicalID string, episodes []models.PodcastEpisode) error {
	data, err := json.Marshal(episodes)
	if err != nil {
		return fmt.Errorf("failed to marshal legacy podcasts: %w", err)
	}
	_, err = s.db.Exec(
		"UPDATE books SET legacy_podcasts = ? WHERE user = ? AND canonical_id = ?",
		string(data), user, canonicalID,
	)
	if err != nil {
		return fmt.Errorf("failed to update legacy podcasts: %w", err)
	}
	return nil
}
