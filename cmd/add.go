package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/lepinkainen/athenaeum/internal/bookid"
	"github.com/lepinkainen/athenaeum/internal/config"
	"github.com/lepinkainen/athenaeum/internal/covers"
	"github.com/lepinkainen/athenaeum/internal/models"
	"github.com/lepinkainen/athenaeum/internal/tui"
)

const maxCandidates = 12

var selectCandidate = tui.Select

// AddCmd searches external sources for a book and adds the chosen
// candidate to the library.
type AddCmd struct {
	Query         string `arg:"" help:"Title or free-form search query"`
	DownloadCover bool   `help:"Store a local cover thumbnail" default:"true" negatable:""`
}

// Run executes the add command.
func (a *AddCmd) Run() error {
	ctx := context.Background()

	candidates := gatherCandidates(ctx, a.Query)
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates found for %q", a.Query)
	}

	choice, err := chooseCandidate(a.Query, candidates)
	if err != nil {
		return err
	}
	if choice == nil {
		fmt.Println("Nothing added.")
		return nil
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	book, err := store.AddBook(viper.GetString("user"), *choice)
	if err != nil {
		return err
	}

	if a.DownloadCover && choice.CoverURL != "" {
		result, err := covers.Download(ctx, covers.Options{
			URL:      choice.CoverURL,
			Dir:      config.CoversDir,
			Filename: covers.BuildFilename(choice.Title),
			Update:   viper.GetBool("covers.update"),
		})
		if err != nil {
			slog.Warn("Cover download failed", "title", choice.Title, "error", err)
		} else if result != nil && result.Downloaded {
			fmt.Printf("Cover saved to %s\n", result.Path)
		}
	}

	fmt.Printf("Added %q by %s (%s)\n", book.Title, book.Author, book.CanonicalID)
	return nil
}

// gatherCandidates collects book candidates from Wikipedia, Apple Books
// and Grok suggestions, deduplicated by canonical identity.
func gatherCandidates(ctx context.Context, query string) []models.BookMetadata {
	var candidates []models.BookMetadata

	candidates = append(candidates, newWikipedia().Search(ctx, query)...)
	candidates = append(candidates, newITunes().SearchEbooks(ctx, query)...)
	candidates = append(candidates, newGrok().TitleSuggestions(ctx, query)...)

	candidates = bookid.DedupBy(candidates, func(c models.BookMetadata) string {
		return c.CanonicalID()
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

func chooseCandidate(query string, candidates []models.BookMetadata) (*models.BookMetadata, error) {
	if viper.GetBool("nointeractive") {
		return &candidates[0], nil
	}

	result, err := selectCandidate(query, candidates)
	if err != nil {
		return nil, err
	}
	switch result.Action {
	case tui.ActionSelected:
		return result.Selection, nil
	default:
		return nil, nil
	}
}
