package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/enrich"
)

// EnrichCmd fetches enrichment data for one library book. Cached kinds
// are served without network calls, so re-running is cheap.
type EnrichCmd struct {
	Title  string `arg:"" help:"Book title"`
	Author string `arg:"" help:"Book author"`
	Kind   string `help:"Only one enrichment kind" enum:"all,podcasts,articles,related,facts,videos" default:"all"`
}

// Run executes the enrich command.
func (e *EnrichCmd) Run() error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// The book must be in the library; enrichment is not a generic search.
	key := bookid.CanonicalID(e.Title, e.Author)
	book, err := store.GetBook(viper.GetString("user"), key)
	if err != nil {
		return err
	}

	svc, err := newEnrichService(store)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if e.Kind != "all" {
		return e.runOne(ctx, svc, book.Title, book.Author)
	}

	results := svc.EnrichAll(ctx, book.Title, book.Author)
	fmt.Printf("Enriched %q: %d podcasts, %d articles, %d related books, %d facts, %d videos\n",
		book.Title, len(results.Podcasts), len(results.Articles),
		len(results.Related), len(results.Facts), len(results.Videos))
	return nil
}

func (e *EnrichCmd) runOne(ctx context.Context, svc *enrich.Service, title, author string) error {
	switch enrich.Kind(e.Kind) {
	case enrich.KindPodcasts:
		episodes := svc.Podcasts(ctx, title, author)
		fmt.Printf("%d podcast episodes\n", len(episodes))
		for _, ep := range episodes {
			fmt.Printf("  - %s [%s] %s\n", ep.Title, ep.ShowName, ep.URL)
		}
	case enrich.KindArticles:
		articles := svc.Articles(ctx, title, author)
		fmt.Printf("%d articles\n", len(articles))
		for _, a := range articles {
			fmt.Printf("  - %s %s\n", a.Title, a.URL)
		}
	case enrich.KindRelated:
		related := svc.RelatedBooks(ctx, title, author)
		fmt.Printf("%d related books\n", len(related))
		for _, r := range related {
			fmt.Printf("  - %s by %s\n", r.Title, r.Author)
		}
	case enrich.KindFacts:
		facts := svc.AuthorFacts(ctx, title, author)
		fmt.Printf("%d author facts\n", len(facts))
		for _, fact := range facts {
			fmt.Printf("  - %s\n", fact)
		}
	case enrich.KindVideos:
		videos := svc.Videos(ctx, title, author)
		fmt.Printf("%d videos\n", len(videos))
		for _, v := range videos {
			fmt.Printf("  - %s %s\n", v.Title, v.URL)
		}
	default:
		return fmt.Errorf("unknown enrichment kind: %s", e.Kind)
	}
	return nil
}
