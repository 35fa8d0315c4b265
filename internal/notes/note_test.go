package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndBuildRoundtrip(t *testing.T) {
	source := "---\nauthor: Frank Herbert\ntags: [book, science-fiction]\ntitle: Dune\n---\nBody text here.\n"

	note, err := Parse([]byte(source))
	require.NoError(t, err)
	assert.Equal(t, "Dune", note.Frontmatter.GetString("title"))
	assert.Equal(t, "Frank Herbert", note.Frontmatter.GetString("author"))
	assert.Equal(t, "Body text here.", strings.TrimSpace(note.Body))

	rebuilt, err := note.Build()
	require.NoError(t, err)
	assert.Equal(t, source, string(rebuilt))
}

func TestParseWithoutFrontmatter(t *testing.T) {
	note, err := Parse([]byte("just a body\n"))
	require.NoError(t, err)
	assert.Empty(t, note.Frontmatter.Keys())
	assert.Equal(t, "just a body\n", note.Body)
}

func TestParseUnterminatedFrontmatter(t *testing.T) {
	note, err := Parse([]byte("---\ntitle: Dune\nno closing delimiter"))
	require.NoError(t, err)
	assert.Empty(t, note.Frontmatter.Keys())
}

func TestBuildSortsKeysAndFlowsTags(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "Dune")
	fm.Set("author", "Frank Herbert")
	fm.Set("tags", []string{"book", "science-fiction"})

	note := &Note{Frontmatter: fm, Body: "body"}
	out, err := note.Build()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "tags: [book, science-fiction]")
	// author sorts before tags sorts before title
	assert.Less(t, strings.Index(text, "author:"), strings.Index(text, "tags:"))
	assert.Less(t, strings.Index(text, "tags:"), strings.Index(text, "title:"))
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Science Fiction", "Science-Fiction"},
		{"#already-tagged", "already-tagged"},
		{"  sci  fi  ", "sci-fi"},
		{"Sci-Fi & Fantasy", "Sci-Fi-and-Fantasy"},
		{"fiction/space-opera", "fiction/space-opera"},
		{"---", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTag(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeTagsDedupesAndSorts(t *testing.T) {
	got := NormalizeTags([]string{"zeta", "Science Fiction", "Science  Fiction", ""})
	assert.Equal(t, []string{"Science-Fiction", "zeta"}, got)
}

func TestUpsertEnrichmentAppendsWhenMissing(t *testing.T) {
	body := UpsertEnrichment("My own reading notes.", "## Podcasts\n\n- one")

	assert.True(t, HasEnrichmentMarkers(body))
	assert.True(t, strings.HasPrefix(body, "My own reading notes."))

	content, ok := EnrichmentContent(body)
	require.True(t, ok)
	assert.Equal(t, "## Podcasts\n\n- one", content)
}

func TestUpsertEnrichmentReplacesAndPreservesManualText(t *testing.T) {
	body := "Intro paragraph.\n\n" + EnrichmentStart + "\nold data\n" + EnrichmentEnd + "\n\nOutro paragraph."

	updated := UpsertEnrichment(body, "new data")

	content, ok := EnrichmentContent(updated)
	require.True(t, ok)
	assert.Equal(t, "new data", content)
	assert.Contains(t, updated, "Intro paragraph.")
	assert.Contains(t, updated, "Outro paragraph.")
	assert.NotContains(t, updated, "old data")
}
