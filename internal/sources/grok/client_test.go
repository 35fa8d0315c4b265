package grok

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "xai-test-key-0123456789abcdef"

// newChatServer returns a server that replies to every chat completion
// with the given content string.
func newChatServer(t *testing.T, content string) (*httptest.Server, *chatRequest) {
	t.Helper()

	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func TestTitleSuggestions(t *testing.T) {
	content := "Here you go:\n```json\n[{\"title\":\"Dune\",\"author\":\"Frank Herbert\"}]\n```"
	server, captured := newChatServer(t, content)

	client := NewClient(testKey, WithBaseURL(server.URL))
	suggestions := client.TitleSuggestions(context.Background(), "dun")

	require.Len(t, suggestions, 1)
	assert.Equal(t, "Dune", suggestions[0].Title)
	assert.Equal(t, "Frank Herbert", suggestions[0].Author)

	assert.Equal(t, "grok-3-mini", captured.Model)
	assert.False(t, captured.Stream)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.True(t, strings.Contains(captured.Messages[0].Content, "dun"))
}

func TestLookupBook(t *testing.T) {
	content := `The best match is {"title":"Dune","author":"Frank Herbert","year":"1965","genre":"science fiction"} hope that helps!`
	server, _ := newChatServer(t, content)

	client := NewClient(testKey, WithBaseURL(server.URL))
	book := client.LookupBook(context.Background(), "dune herbert")

	require.NotNil(t, book)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "1965", book.Year)
}

func TestLookupBookEmptyTitleIsMiss(t *testing.T) {
	server, _ := newChatServer(t, `{"title":"","author":""}`)

	client := NewClient(testKey, WithBaseURL(server.URL))
	assert.Nil(t, client.LookupBook(context.Background(), "gibberish"))
}

func TestAuthorFacts(t *testing.T) {
	server, _ := newChatServer(t, `{"facts":["Born in Tacoma","Worked as a journalist"]}`)

	client := NewClient(testKey, WithBaseURL(server.URL))
	facts := client.AuthorFacts(context.Background(), "Frank Herbert")

	assert.Equal(t, []string{"Born in Tacoma", "Worked as a journalist"}, facts)
}

func TestPodcastEpisodesDropsMissingURL(t *testing.T) {
	content := `[
		{"title":"real one","url":"https://p.example/1","show_name":"Great Books"},
		{"title":"hallucinated","url":""}
	]`
	server, _ := newChatServer(t, content)

	client := NewClient(testKey, WithBaseURL(server.URL))
	episodes := client.PodcastEpisodes(context.Background(), "Dune", "Frank Herbert")

	require.Len(t, episodes, 1)
	assert.Equal(t, "real one", episodes[0].Title)
}

func TestRelatedBooks(t *testing.T) {
	content := `[{"title":"Hyperion","author":"Dan Simmons","reason":"epic far-future worldbuilding"}]`
	server, _ := newChatServer(t, content)

	client := NewClient(testKey, WithBaseURL(server.URL))
	related := client.RelatedBooks(context.Background(), "Dune", "Frank Herbert")

	require.Len(t, related, 1)
	assert.Equal(t, "Hyperion", related[0].Title)
	assert.NotEmpty(t, related[0].Reason)
}

func TestUnusableKeySkipsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made with a placeholder key")
	}))
	defer server.Close()

	client := NewClient("short", WithBaseURL(server.URL))
	assert.Nil(t, client.TitleSuggestions(context.Background(), "dune"))
	assert.Nil(t, client.LookupBook(context.Background(), "dune"))
	assert.Nil(t, client.AuthorFacts(context.Background(), "Frank Herbert"))
	assert.Nil(t, client.PodcastEpisodes(context.Background(), "Dune", "Frank Herbert"))
	assert.Nil(t, client.RelatedBooks(context.Background(), "Dune", "Frank Herbert"))
}

func TestNonJSONResponseFailsClosed(t *testing.T) {
	server, _ := newChatServer(t, "I could not find anything useful.")

	client := NewClient(testKey, WithBaseURL(server.URL))
	assert.Nil(t, client.RelatedBooks(context.Background(), "Dune", "Frank Herbert"))
}

func TestServerErrorFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(testKey, WithBaseURL(server.URL))
	assert.Nil(t, client.AuthorFacts(context.Background(), "Frank Herbert"))
}
