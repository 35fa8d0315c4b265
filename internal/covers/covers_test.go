package covers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/athenaeum/internal/testutil"
)

// pngBytes renders a solid test image of the given width.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDownloadResizesWideImage(t *testing.T) {
	server := imageServer(t, pngBytes(t, 800, 1200))
	env := testutil.NewTestEnv(t)

	result, err := Download(context.Background(), Options{
		URL:      server.URL,
		Dir:      env.RootDir(),
		Filename: "dune - cover.jpg",
		MaxWidth: 400,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Downloaded)

	saved, err := imaging.Open(result.Path)
	require.NoError(t, err)
	assert.Equal(t, 400, saved.Bounds().Dx())
	// Aspect ratio preserved.
	assert.Equal(t, 600, saved.Bounds().Dy())
}

func TestDownloadKeepsSmallImage(t *testing.T) {
	server := imageServer(t, pngBytes(t, 200, 300))
	env := testutil.NewTestEnv(t)

	result, err := Download(context.Background(), Options{
		URL:      server.URL,
		Dir:      env.RootDir(),
		Filename: "small - cover.jpg",
		MaxWidth: 400,
	})
	require.NoError(t, err)

	saved, err := imaging.Open(result.Path)
	require.NoError(t, err)
	assert.Equal(t, 200, saved.Bounds().Dx())
}

func TestDownloadEmptyURL(t *testing.T) {
	result, err := Download(context.Background(), Options{})
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestDownloadSkipsExisting(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write(pngBytes(t, 100, 100))
	}))
	defer server.Close()

	env := testutil.NewTestEnv(t)
	path := filepath.Join(env.RootDir(), "existing - cover.jpg")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	result, err := Download(context.Background(), Options{
		URL:      server.URL,
		Dir:      env.RootDir(),
		Filename: "existing - cover.jpg",
	})
	require.NoError(t, err)
	assert.False(t, result.Downloaded)
	assert.Equal(t, 0, requests)

	// Update forces the refetch.
	result, err = Download(context.Background(), Options{
		URL:      server.URL,
		Dir:      env.RootDir(),
		Filename: "existing - cover.jpg",
		Update:   true,
	})
	require.NoError(t, err)
	assert.True(t, result.Downloaded)
	assert.Equal(t, 1, requests)
}

func TestDownloadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	env := testutil.NewTestEnv(t)
	_, err := Download(context.Background(), Options{
		URL:      server.URL,
		Dir:      env.RootDir(),
		Filename: "x.jpg",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestDownloadNonImageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an image</html>"))
	}))
	defer server.Close()

	env := testutil.NewTestEnv(t)
	_, err := Download(context.Background(), Options{
		URL:      server.URL,
		Dir:      env.RootDir(),
		Filename: "x.jpg",
	})
	assert.Error(t, err)
}

func TestBuildFilename(t *testing.T) {
	assert.Equal(t, "Dune - cover.jpg", BuildFilename("Dune"))
	assert.Equal(t, "Dune - Messiah - cover.jpg", BuildFilename("Dune: Messiah"))
	assert.Equal(t, "One-Two - cover.jpg", BuildFilename("One/Two"))
}
