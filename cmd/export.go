package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/cache"
	"github.com/lepinkainen/athenaeum/internal/library"
	"github.com/lepinkainen/athenaeum/internal/models"
	"github.com/lepinkainen/athenaeum/internal/notes"
)

// ExportCmd writes markdown notes for library books, one file per book,
// with frontmatter and cached enrichment data. Re-exporting refreshes
// only the managed block, so manual notes survive.
type ExportCmd struct {
	Dir    string `help:"Notes output directory (default from config)"`
	Title  string `arg:"" optional:"" help:"Export a single book by title"`
	Author string `arg:"" optional:"" help:"Book author (with title)"`
}

// Run executes the export command.
func (e *ExportCmd) Run() error {
	dir := e.Dir
	if dir == "" {
		dir = viper.GetString("notes.dir")
	}
	if dir == "" {
		dir = "./notes/"
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	db, err := cache.Global()
	if err != nil {
		return err
	}

	user := viper.GetString("user")

	var books []models.Book
	if e.Title != "" {
		book, err := store.GetBook(user, bookid.CanonicalID(e.Title, e.Author))
		if err != nil {
			return err
		}
		books = []models.Book{*book}
	} else {
		books, err = store.ListBooks(user)
		if err != nil {
			return err
		}
	}
	if len(books) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	for i := range books {
		book := &books[i]
		path, err := notes.Write(dir, book, cachedEnrichment(db, store, book))
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

// cachedEnrichment collects whatever enrichment data is already cached
// for a book. No network calls; run enrich first to populate.
func cachedEnrichment(db *cache.DB, store *library.Store, book *models.Book) notes.Enrichment {
	key := book.CanonicalID

	curated, _ := store.CuratedEpisodes(book.Title, book.Author)
	apple, _ := cache.GetListPartition[models.PodcastEpisode](db, cache.TablePodcasts, key, models.SourceApple)

	var data notes.Enrichment
	data.Podcasts = append(append(data.Podcasts, curated...), apple...)
	data.Articles, _ = cache.GetList[models.Article](db, cache.TableScholar, key)
	data.Related, _ = cache.GetList[models.RelatedBook](db, cache.TableRelated, key)
	data.Facts, _ = cache.GetList[string](db, cache.TableFacts, key)
	data.Videos, _ = cache.GetList[models.Video](db, cache.TableVideos, key)
	return data
}
