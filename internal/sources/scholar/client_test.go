package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProxy(serverURL string) Option {
	return WithProxy("test", func(target string) string {
		return serverURL + "/?url=" + url.QueryEscape(target)
	})
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		assert.Contains(t, target, "scholar.google.com")
		assert.Contains(t, target, url.QueryEscape("Dune Frank Herbert"))
		fmt.Fprint(w, resultsPage)
	}))
	defer server.Close()

	client := NewClient(testProxy(server.URL))
	articles := client.Search(context.Background(), "Dune", "Frank Herbert")

	require.Len(t, articles, 2)
	assert.Equal(t, "Ecology and empire in Dune", articles[0].Title)
	assert.False(t, IsFallback(articles[0]))
}

func TestSearchTriesNextProxy(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer blocked.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, resultsPage)
	}))
	defer working.Close()

	client := NewClient(WithProxies([]proxy{
		{"blocked", func(target string) string { return blocked.URL }},
		{"working", func(target string) string { return working.URL }},
	}))

	articles := client.Search(context.Background(), "Dune", "Frank Herbert")
	require.Len(t, articles, 2)
}

func TestSearchCaptchaPageFallsThrough(t *testing.T) {
	// A proxy that answers 200 with a captcha wall is not a real success.
	captcha := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>Please show you're not a robot</body></html>")
	}))
	defer captcha.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, resultsPage)
	}))
	defer working.Close()

	client := NewClient(WithProxies([]proxy{
		{"captcha", func(target string) string { return captcha.URL }},
		{"working", func(target string) string { return working.URL }},
	}))

	articles := client.Search(context.Background(), "Dune", "Frank Herbert")
	require.Len(t, articles, 2)
}

func TestSearchFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(testProxy(server.URL))
	articles := client.Search(context.Background(), "Dune", "Frank Herbert")

	require.Len(t, articles, 1)
	assert.True(t, IsFallback(articles[0]))
	assert.Contains(t, articles[0].Title, "Dune")
	assert.Contains(t, articles[0].URL, "scholar.google.com/scholar?q=")
}

func TestIsFallback(t *testing.T) {
	assert.True(t, IsFallback(Fallback("Dune", "Frank Herbert")))
}
