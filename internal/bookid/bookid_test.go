package bookid

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "The Hobbit", "the hobbit"},
		{"surrounding whitespace", "  dune  ", "dune"},
		{"internal whitespace collapsed", "j.r.r.   tolkien", "j.r.r. tolkien"},
		{"tabs and newlines", "a\tb\nc", "a b c"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestCanonicalID(t *testing.T) {
	assert.Equal(t, "dune|frank herbert", CanonicalID("Dune", "Frank Herbert"))

	// Case and whitespace variants produce the same key.
	a := CanonicalID("The Hobbit", "J.R.R. Tolkien")
	b := CanonicalID("  the hobbit  ", "j.r.r.   tolkien")
	assert.Equal(t, a, b)
}

type urlItem struct {
	URL string
}

func TestDedupBy(t *testing.T) {
	items := []urlItem{{"a"}, {"b"}, {"a"}, {"c"}, {"b"}}
	got := DedupBy(items, func(i urlItem) string { return i.URL })
	assert.Equal(t, []urlItem{{"a"}, {"b"}, {"c"}}, got)
}

func TestDedupByIdempotent(t *testing.T) {
	items := []urlItem{{"a"}, {"b"}, {"c"}}
	once := DedupBy(items, func(i urlItem) string { return i.URL })
	twice := DedupBy(once, func(i urlItem) string { return i.URL })
	assert.Equal(t, once, twice)
}

func TestDedupByDropsEmptyKeys(t *testing.T) {
	items := []urlItem{{""}, {"a"}, {""}}
	got := DedupBy(items, func(i urlItem) string { return i.URL })
	assert.Equal(t, []urlItem{{"a"}}, got)
}
