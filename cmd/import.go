package cmd

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/viper"

	"github.com/lepinkainen/athenaeum/internal/csvutil"
	"github.com/lepinkainen/athenaeum/internal/library"
	"github.com/lepinkainen/athenaeum/internal/models"
)

var importYearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ImportCmd bulk-imports books from a Goodreads-style CSV export.
// Columns are matched by header name, so column order does not matter.
type ImportCmd struct {
	File string `arg:"" help:"Path to the CSV export" type:"existingfile"`
}

// Run executes the import command.
func (i *ImportCmd) Run() error {
	rows, err := csvutil.ProcessFile(i.File, parseBookRecord, csvutil.ProcessorOptions{SkipInvalid: true})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no importable rows in %s", i.File)
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	user := viper.GetString("user")
	added, skipped := 0, 0
	for _, meta := range rows {
		_, err := store.AddBook(user, meta)
		switch {
		case errors.Is(err, library.ErrDuplicateBook):
			skipped++
		case err != nil:
			return err
		default:
			added++
		}
	}

	fmt.Printf("Imported %d books (%d already in library)\n", added, skipped)
	return nil
}

func parseBookRecord(r csvutil.Record) (models.BookMetadata, error) {
	title := r.Get("Title")
	author := r.Get("Author")
	if title == "" || author == "" {
		return models.BookMetadata{}, fmt.Errorf("record needs both title and author")
	}

	year := r.Get("Original Publication Year")
	if year == "" {
		year = r.Get("Year Published")
	}
	if year != "" && !importYearPattern.MatchString(year) {
		year = ""
	}

	return models.BookMetadata{
		Title:  title,
		Author: author,
		Year:   year,
		ISBN:   r.Get("ISBN13"),
	}, nil
}
