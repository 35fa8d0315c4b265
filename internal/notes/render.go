package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/athenaeum/internal/models"
)

// Enrichment holds the cached enrichment data rendered into the managed
// block of a note. Empty sections are omitted.
type Enrichment struct {
	Podcasts []models.PodcastEpisode
	Articles []models.Article
	Related  []models.RelatedBook
	Facts    []string
	Videos   []models.Video
}

var filenameReplacer = strings.NewReplacer(
	":", " -",
	"/", "-",
	"\\", "-",
	"?", "",
	"*", "",
	"\"", "'",
)

// NotePath returns the markdown file path for a book title.
func NotePath(dir, title string) string {
	return filepath.Join(dir, filenameReplacer.Replace(title)+".md")
}

// Render builds the full note document for a book: frontmatter plus a
// managed enrichment block.
func Render(book *models.Book, data Enrichment) ([]byte, error) {
	note := &Note{
		Frontmatter: bookFrontmatter(book),
		Body:        wrapWithMarkers(enrichmentSections(book, data)),
	}
	return note.Build()
}

// Write renders the book note into dir, merging with an existing file.
// Manual content outside the managed block is preserved; frontmatter is
// refreshed from the library row.
func Write(dir string, book *models.Book, data Enrichment) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create notes directory: %w", err)
	}

	path := NotePath(dir, book.Title)

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read existing note: %w", err)
	}

	var content []byte
	if len(existing) == 0 {
		content, err = Render(book, data)
	} else {
		content, err = merge(existing, book, data)
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write note: %w", err)
	}
	return path, nil
}

func merge(existing []byte, book *models.Book, data Enrichment) ([]byte, error) {
	parsed, err := Parse(existing)
	if err != nil {
		return nil, err
	}

	fm := bookFrontmatter(book)
	// Keep manual frontmatter additions that the library row does not own.
	for _, key := range parsed.Frontmatter.Keys() {
		if _, owned := fm.Get(key); !owned {
			val, _ := parsed.Frontmatter.Get(key)
			fm.Set(key, val)
		}
	}

	note := &Note{
		Frontmatter: fm,
		Body:        UpsertEnrichment(parsed.Body, enrichmentSections(book, data)),
	}
	return note.Build()
}

func bookFrontmatter(book *models.Book) *Frontmatter {
	fm := NewFrontmatter()
	fm.Set("title", book.Title)
	fm.Set("author", book.Author)
	if book.Year != "" {
		fm.Set("year", book.Year)
	}

	tags := []string{"book"}
	if book.Genre != "" {
		tags = append(tags, book.Genre)
	}
	fm.Set("tags", NormalizeTags(tags))
	return fm
}

func enrichmentSections(book *models.Book, data Enrichment) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "# %s\n\n*%s*", book.Title, book.Author)

	if len(data.Podcasts) > 0 {
		builder.WriteString("\n\n## Podcasts\n")
		for _, ep := range data.Podcasts {
			fmt.Fprintf(&builder, "\n- [%s](%s)", ep.Title, ep.URL)
			if ep.ShowName != "" {
				fmt.Fprintf(&builder, " — %s", ep.ShowName)
			}
		}
	}

	if len(data.Articles) > 0 {
		builder.WriteString("\n\n## Articles\n")
		for _, a := range data.Articles {
			fmt.Fprintf(&builder, "\n- [%s](%s)", a.Title, a.URL)
			if a.Year != "" {
				fmt.Fprintf(&builder, " (%s)", a.Year)
			}
		}
	}

	if len(data.Related) > 0 {
		builder.WriteString("\n\n## Related books\n")
		for _, r := range data.Related {
			fmt.Fprintf(&builder, "\n- **%s** by %s", r.Title, r.Author)
			if r.Reason != "" {
				fmt.Fprintf(&builder, " — %s", r.Reason)
			}
		}
	}

	if len(data.Facts) > 0 {
		fmt.Fprintf(&builder, "\n\n## About %s\n", book.Author)
		for _, fact := range data.Facts {
			fmt.Fprintf(&builder, "\n- %s", fact)
		}
	}

	if len(data.Videos) > 0 {
		builder.WriteString("\n\n## Videos\n")
		for _, v := range data.Videos {
			fmt.Fprintf(&builder, "\n- [%s](%s)", v.Title, v.URL)
		}
	}

	return builder.String()
}
