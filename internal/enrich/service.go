// Package enrich orchestrates multi-source book enrichment: cache check,
// concurrent fetch fan-out, priority merge and write-back, per book and
// enrichment kind.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/cache"
	"github.com/lepinkainen/athenaeum/internal/models"
	"github.com/lepinkainen/athenaeum/internal/sources/scholar"
)

// Narrow source interfaces so the orchestrator can be exercised without
// live adapters. The concrete clients in internal/sources satisfy these.

// CuratedSource returns pre-vetted podcast episodes from the database.
type CuratedSource interface {
	CuratedEpisodes(title, author string) ([]models.PodcastEpisode, error)
}

// LegacySource reads the deprecated single-column podcast data.
type LegacySource interface {
	LegacyPodcasts(user, canonicalID string) []models.PodcastEpisode
}

// AppleSource searches Apple Podcasts live.
type AppleSource interface {
	SearchEpisodes(ctx context.Context, title, author string) []models.PodcastEpisode
}

// ArticleSource searches for scholarly articles.
type ArticleSource interface {
	Search(ctx context.Context, title, author string) []models.Article
}

// FactsSource returns facts about an author.
type FactsSource interface {
	AuthorFacts(ctx context.Context, author string) []string
}

// RelatedSource returns related book recommendations.
type RelatedSource interface {
	RelatedBooks(ctx context.Context, title, author string) []models.RelatedBook
}

// VideoSource searches for videos about a book.
type VideoSource interface {
	Search(ctx context.Context, title, author string) []models.Video
}

// CoverSource looks up ebook covers, used to decorate related books.
type CoverSource interface {
	SearchEbooks(ctx context.Context, query string) []models.BookMetadata
}

// Config wires a Service. Any nil source simply contributes nothing.
type Config struct {
	Cache   *cache.DB
	Curated CuratedSource
	Legacy  LegacySource
	Apple   AppleSource
	Scholar ArticleSource
	Facts   FactsSource
	Related RelatedSource
	Videos  VideoSource
	Covers  CoverSource

	// User scopes legacy podcast lookups.
	User string

	// OnState observes state transitions, mainly for logging and tests.
	OnState func(canonicalID string, kind Kind, state State)
}

// Results holds every enrichment result for one book.
type Results struct {
	Podcasts []models.PodcastEpisode
	Articles []models.Article
	Related  []models.RelatedBook
	Facts    []string
	Videos   []models.Video
}

// Service runs enrichment flows. All methods are idempotent: repeated
// calls for the same book read from cache and skip the network unless the
// cache has no row.
type Service struct {
	cfg Config
}

// NewService creates a Service from the given wiring.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

func (s *Service) setState(key string, kind Kind, state State) {
	slog.Debug("Enrichment state", "key", key, "kind", kind, "state", state.String())
	if s.cfg.OnState != nil {
		s.cfg.OnState(key, kind, state)
	}
}

// runBranch executes one fan-out branch, converting a panic into an error
// so a misbehaving source cannot take down its sibling branches.
func runBranch(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s source panicked: %v", name, r)
		}
	}()
	return fn()
}

// Podcasts returns podcast episodes about the book, merged from the
// curated list, Apple Podcasts and legacy data in that priority order.
func (s *Service) Podcasts(ctx context.Context, title, author string) []models.PodcastEpisode {
	key := bookid.CanonicalID(title, author)
	s.setState(key, KindPodcasts, StateCheckingCache)

	legacy := s.legacyEpisodes(key)

	curatedCached, curatedFound := cache.GetListPartition[models.PodcastEpisode](s.cfg.Cache, cache.TablePodcasts, key, models.SourceCurated)
	appleCached, appleFound := cache.GetListPartition[models.PodcastEpisode](s.cfg.Cache, cache.TablePodcasts, key, models.SourceApple)
	if curatedFound || appleFound {
		merged := mergePodcasts(curatedCached, appleCached, legacy)
		s.setState(key, KindPodcasts, StateDone)
		return merged
	}

	s.setState(key, KindPodcasts, StateFetching)

	var (
		curated    []models.PodcastEpisode
		apple      []models.PodcastEpisode
		curatedErr error
		appleErr   error
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		curatedErr = runBranch("curated", func() error {
			if s.cfg.Curated == nil {
				return nil
			}
			var err error
			curated, err = s.cfg.Curated.CuratedEpisodes(title, author)
			return err
		})
	}()
	go func() {
		defer wg.Done()
		appleErr = runBranch("apple", func() error {
			if s.cfg.Apple == nil {
				return nil
			}
			apple = s.cfg.Apple.SearchEpisodes(ctx, title, author)
			return nil
		})
	}()
	wg.Wait()

	// A failed branch contributes an empty list; the other still counts.
	if curatedErr != nil {
		slog.Warn("Curated podcast source failed", "key", key, "error", curatedErr)
		curated = nil
	}
	if appleErr != nil {
		slog.Warn("Apple podcast source failed", "key", key, "error", appleErr)
		apple = nil
	}

	s.setState(key, KindPodcasts, StateMerging)
	merged := mergePodcasts(curated, apple, legacy)

	s.setState(key, KindPodcasts, StatePersisting)
	// Partitions are written separately so cached curated results stay
	// distinguishable from Apple ones. A failed branch is not persisted:
	// caching its empty list would suppress the refetch it needs.
	if curatedErr == nil {
		s.persistPartition(key, models.SourceCurated, curated)
	}
	if appleErr == nil {
		s.persistPartition(key, models.SourceApple, apple)
	}

	if len(merged) == 0 && (curatedErr != nil || appleErr != nil) {
		s.setState(key, KindPodcasts, StateFailedSoft)
	} else {
		s.setState(key, KindPodcasts, StateDone)
	}
	return merged
}

func (s *Service) legacyEpisodes(key string) []models.PodcastEpisode {
	if s.cfg.Legacy == nil {
		return nil
	}
	return s.cfg.Legacy.LegacyPodcasts(s.cfg.User, key)
}

func (s *Service) persistPartition(key, source string, episodes []models.PodcastEpisode) {
	if err := cache.SaveListPartition(s.cfg.Cache, cache.TablePodcasts, key, source, episodes); err != nil {
		slog.Warn("Failed to persist podcast partition", "key", key, "source", source, "error", err)
	}
}

// Articles returns scholarly articles about the book. The synthetic
// blocked-scrape fallback is returned to the caller but never cached, so
// a later run retries once scraping recovers.
func (s *Service) Articles(ctx context.Context, title, author string) []models.Article {
	key := bookid.CanonicalID(title, author)
	s.setState(key, KindArticles, StateCheckingCache)

	if cached, found := cache.GetList[models.Article](s.cfg.Cache, cache.TableScholar, key); found {
		s.setState(key, KindArticles, StateDone)
		return cached
	}

	s.setState(key, KindArticles, StateFetching)
	var articles []models.Article
	if s.cfg.Scholar != nil {
		articles = s.cfg.Scholar.Search(ctx, title, author)
	}

	if containsFallback(articles) {
		s.setState(key, KindArticles, StateFailedSoft)
		return articles
	}

	s.setState(key, KindArticles, StatePersisting)
	if err := cache.SaveList(s.cfg.Cache, cache.TableScholar, key, articles); err != nil {
		slog.Warn("Failed to persist articles", "key", key, "error", err)
	}

	s.setState(key, KindArticles, StateDone)
	return articles
}

func containsFallback(articles []models.Article) bool {
	for _, a := range articles {
		if scholar.IsFallback(a) {
			return true
		}
	}
	return false
}

// RelatedBooks returns book recommendations, decorated with ebook covers
// before caching so the expensive cover lookups happen once.
func (s *Service) RelatedBooks(ctx context.Context, title, author string) []models.RelatedBook {
	key := bookid.CanonicalID(title, author)
	s.setState(key, KindRelated, StateCheckingCache)

	if cached, found := cache.GetList[models.RelatedBook](s.cfg.Cache, cache.TableRelated, key); found {
		s.setState(key, KindRelated, StateDone)
		return cached
	}

	s.setState(key, KindRelated, StateFetching)
	var related []models.RelatedBook
	if s.cfg.Related != nil {
		related = s.cfg.Related.RelatedBooks(ctx, title, author)
	}

	s.setState(key, KindRelated, StateMerging)
	s.decorateCovers(ctx, related)

	s.setState(key, KindRelated, StatePersisting)
	if err := cache.SaveList(s.cfg.Cache, cache.TableRelated, key, related); err != nil {
		slog.Warn("Failed to persist related books", "key", key, "error", err)
	}

	s.setState(key, KindRelated, StateDone)
	return related
}

func (s *Service) decorateCovers(ctx context.Context, related []models.RelatedBook) {
	if s.cfg.Covers == nil {
		return
	}
	for i := range related {
		if related[i].CoverURL != "" {
			continue
		}
		query := strings.TrimSpace(related[i].Title + " " + related[i].Author)
		if matches := s.cfg.Covers.SearchEbooks(ctx, query); len(matches) > 0 {
			related[i].CoverURL = matches[0].CoverURL
			if related[i].Year == "" {
				related[i].Year = matches[0].Year
			}
		}
	}
}

// AuthorFacts returns facts about the book's author. Unlike the other
// kinds, a cached empty list triggers a refetch: facts come from a single
// flaky source and an empty answer is worth retrying.
func (s *Service) AuthorFacts(ctx context.Context, title, author string) []string {
	key := bookid.CanonicalID(title, author)
	s.setState(key, KindFacts, StateCheckingCache)

	if cached, found := cache.GetList[string](s.cfg.Cache, cache.TableFacts, key); found && len(cached) > 0 {
		s.setState(key, KindFacts, StateDone)
		return cached
	}

	s.setState(key, KindFacts, StateFetching)
	var facts []string
	if s.cfg.Facts != nil {
		facts = s.cfg.Facts.AuthorFacts(ctx, author)
	}

	s.setState(key, KindFacts, StatePersisting)
	if err := cache.SaveList(s.cfg.Cache, cache.TableFacts, key, facts); err != nil {
		slog.Warn("Failed to persist author facts", "key", key, "error", err)
	}

	s.setState(key, KindFacts, StateDone)
	return facts
}

// Videos returns videos about the book and its author.
func (s *Service) Videos(ctx context.Context, title, author string) []models.Video {
	key := bookid.CanonicalID(title, author)
	s.setState(key, KindVideos, StateCheckingCache)

	if cached, found := cache.GetList[models.Video](s.cfg.Cache, cache.TableVideos, key); found {
		s.setState(key, KindVideos, StateDone)
		return cached
	}

	s.setState(key, KindVideos, StateFetching)
	var videos []models.Video
	if s.cfg.Videos != nil {
		videos = s.cfg.Videos.Search(ctx, title, author)
	}

	s.setState(key, KindVideos, StatePersisting)
	if err := cache.SaveList(s.cfg.Cache, cache.TableVideos, key, videos); err != nil {
		slog.Warn("Failed to persist videos", "key", key, "error", err)
	}

	s.setState(key, KindVideos, StateDone)
	return videos
}

// EnrichAll runs every enrichment kind for one book concurrently and
// waits for all of them.
func (s *Service) EnrichAll(ctx context.Context, title, author string) *Results {
	results := &Results{}

	var wg sync.WaitGroup
	wg.Add(5)
	go func() { defer wg.Done(); results.Podcasts = s.Podcasts(ctx, title, author) }()
	go func() { defer wg.Done(); results.Articles = s.Articles(ctx, title, author) }()
	go func() { defer wg.Done(); results.Related = s.RelatedBooks(ctx, title, author) }()
	go func() { defer wg.Done(); results.Facts = s.AuthorFacts(ctx, title, author) }()
	go func() { defer wg.Done(); results.Videos = s.Videos(ctx, title, author) }()
	wg.Wait()

	return results
}
