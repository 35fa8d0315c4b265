package notes

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/athenaeum/internal/models"
)

func testBook() *models.Book {
	return &models.Book{
		CanonicalID: "dune|frank herbert",
		Title:       "Dune",
		Author:      "Frank Herbert",
		Year:        "1965",
		Genre:       "Sci-Fi & Fantasy",
	}
}

func TestRender(t *testing.T) {
	out, err := Render(testBook(), Enrichment{
		Podcasts: []models.PodcastEpisode{{Title: "Dune deep dive", URL: "https://p.example/1", ShowName: "Book Talk"}},
		Facts:    []string{"Worked as a journalist."},
	})
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "title: Dune")
	assert.Contains(t, text, "tags: [Sci-Fi-and-Fantasy, book]")
	assert.Contains(t, text, "year: \"1965\"")
	assert.Contains(t, text, "## Podcasts")
	assert.Contains(t, text, "[Dune deep dive](https://p.example/1)")
	assert.Contains(t, text, "## About Frank Herbert")
	// Empty sections stay out of the note.
	assert.NotContains(t, text, "## Videos")
}

func TestNotePathSanitizesTitle(t *testing.T) {
	path := NotePath("/notes", "Dune: Messiah / Part 2")
	assert.Equal(t, "/notes/Dune - Messiah - Part 2.md", path)
}

func TestWriteCreatesNote(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(dir, testBook(), Enrichment{})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Dune")
}

func TestWritePreservesManualEdits(t *testing.T) {
	dir := t.TempDir()
	book := testBook()

	_, err := Write(dir, book, Enrichment{Facts: []string{"old fact"}})
	require.NoError(t, err)

	// Simulate manual edits: extra frontmatter key plus text after the block.
	path := NotePath(dir, book.Title)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	note, err := Parse(content)
	require.NoError(t, err)
	note.Frontmatter.Set("rating", 5)
	note.Body += "\n\nMy personal review."
	edited, err := note.Build()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, edited, 0644))

	_, err = Write(dir, book, Enrichment{Facts: []string{"new fact"}})
	require.NoError(t, err)

	updated, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(updated)
	assert.Contains(t, text, "rating: 5")
	assert.Contains(t, text, "My personal review.")
	assert.Contains(t, text, "new fact")
	assert.NotContains(t, text, "old fact")
}
