package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/cache"
	"github.com/lepinkainen/athenaeum/internal/models"
)

// ListCmd lists the user's library.
type ListCmd struct{}

// Run executes the list command.
func (l *ListCmd) Run() error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	books, err := store.ListBooks(viper.GetString("user"))
	if err != nil {
		return err
	}
	if len(books) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	for _, book := range books {
		line := fmt.Sprintf("%s — %s", book.Title, book.Author)
		if book.Year != "" {
			line += fmt.Sprintf(" (%s)", book.Year)
		}
		fmt.Println(line)
	}
	return nil
}

// ShowCmd shows one book with whatever enrichment data is already cached.
// It never hits the network; use enrich for that.
type ShowCmd struct {
	Title  string `arg:"" help:"Book title"`
	Author string `arg:"" help:"Book author"`
}

// Run executes the show command.
func (s *ShowCmd) Run() error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	key := bookid.CanonicalID(s.Title, s.Author)
	book, err := store.GetBook(viper.GetString("user"), key)
	if err != nil {
		return err
	}

	fmt.Printf("%s — %s\n", book.Title, book.Author)
	if book.Year != "" {
		fmt.Printf("  Year:  %s\n", book.Year)
	}
	if book.Genre != "" {
		fmt.Printf("  Genre: %s\n", book.Genre)
	}

	db, err := cache.Global()
	if err != nil {
		return err
	}

	printCachedSections(db, store, book)
	return nil
}

func printCachedSections(db *cache.DB, curated interface {
	CuratedEpisodes(title, author string) ([]models.PodcastEpisode, error)
}, book *models.Book) {
	key := book.CanonicalID

	curatedEps, _ := curated.CuratedEpisodes(book.Title, book.Author)
	appleEps, _ := cache.GetListPartition[models.PodcastEpisode](db, cache.TablePodcasts, key, models.SourceApple)
	if len(curatedEps)+len(appleEps) > 0 {
		fmt.Printf("\nPodcasts (%d curated, %d from Apple):\n", len(curatedEps), len(appleEps))
		for _, ep := range append(curatedEps, appleEps...) {
			fmt.Printf("  - %s [%s] %s\n", ep.Title, ep.ShowName, ep.URL)
		}
	}

	if articles, found := cache.GetList[models.Article](db, cache.TableScholar, key); found && len(articles) > 0 {
		fmt.Printf("\nArticles:\n")
		for _, a := range articles {
			fmt.Printf("  - %s (%s) %s\n", a.Title, a.Year, a.URL)
		}
	}

	if related, found := cache.GetList[models.RelatedBook](db, cache.TableRelated, key); found && len(related) > 0 {
		fmt.Printf("\nRelated books:\n")
		for _, r := range related {
			fmt.Printf("  - %s by %s: %s\n", r.Title, r.Author, r.Reason)
		}
	}

	if facts, found := cache.GetList[string](db, cache.TableFacts, key); found && len(facts) > 0 {
		fmt.Printf("\nAbout %s:\n", book.Author)
		for _, fact := range facts {
			fmt.Printf("  - %s\n", fact)
		}
	}

	if videos, found := cache.GetList[models.Video](db, cache.TableVideos, key); found && len(videos) > 0 {
		fmt.Printf("\nVideos:\n")
		for _, v := range videos {
			fmt.Printf("  - %s [%s] %s\n", v.Title, v.ChannelTitle, v.URL)
		}
	}
}
