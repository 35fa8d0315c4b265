// Package covers downloads book cover images and stores resized local
// thumbnails so list views do not hotlink upstream CDNs.
package covers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

const (
	defaultMaxWidth = 400
	jpegQuality     = 85
)

// Options holds options for downloading a cover image.
type Options struct {
	// URL is the source URL of the cover image.
	URL string
	// Dir is the directory where covers are stored.
	Dir string
	// Filename is the cover file name (see BuildFilename).
	Filename string
	// MaxWidth bounds the stored image width; wider images are resized.
	MaxWidth int
	// Update forces re-downloading even if the file exists.
	Update bool
}

// Result holds the outcome of a cover download.
type Result struct {
	// Downloaded indicates a new file was written.
	Downloaded bool
	// Path is the full path to the cover file.
	Path string
}

// Download fetches a cover image, resizes it down to MaxWidth if needed
// and saves it as JPEG. An existing file is kept unless Update is set.
// An empty URL is a no-op.
func Download(ctx context.Context, opts Options) (*Result, error) {
	if opts.URL == "" {
		return nil, nil
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = defaultMaxWidth
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}

	path := filepath.Join(opts.Dir, opts.Filename)
	result := &Result{Path: path}

	if !opts.Update {
		if _, err := os.Stat(path); err == nil {
			slog.Debug("Cover already exists, skipping download", "path", path)
			return result, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading cover from %s", resp.StatusCode, opts.URL)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}

	if img.Bounds().Dx() > opts.MaxWidth {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to save cover: %w", err)
	}

	slog.Info("Downloaded cover", "path", path)
	result.Downloaded = true
	return result, nil
}

// BuildFilename creates a standard cover filename from a title.
// Returns: "Title - cover.jpg".
func BuildFilename(title string) string {
	return sanitizeFilename(title) + " - cover.jpg"
}

var filenameReplacer = strings.NewReplacer(
	":", " -",
	"/", "-",
	"\\", "-",
	"?", "",
	"*", "",
	"\"", "'",
	"<", "",
	">", "",
	"|", "-",
)

func sanitizeFilename(name string) string {
	return strings.TrimSpace(filenameReplacer.Replace(name))
}
