// Package covers downloads book cover images from the Open Library covers
// service and saves resized local copies.
package covers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/lepinkainen/bookscout/internal/fileutil"
)

const (
	coverBaseURL    = "https://covers.openlibrary.org"
	defaultMaxWidth = 400
)

// URL returns the large cover image URL for a cover ID.
func URL(coverID int) (string, error) {
	if coverID <= 0 {
		return "", fmt.Errorf("invalid cover ID: %d", coverID)
	}
	return fmt.Sprintf("%s/b/id/%d-L.jpg", coverBaseURL, coverID), nil
}

// Downloader fetches and resizes cover images.
type Downloader struct {
	httpClient *http.Client
	baseURL    string
	maxWidth   int
}

// NewDownloader creates a Downloader with the default covers host.
func NewDownloader() *Downloader {
	return &Downloader{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    coverBaseURL,
		maxWidth:   defaultMaxWidth,
	}
}

// NewDownloaderWithClient creates a Downloader against a custom host.
// Used by tests.
func NewDownloaderWithClient(baseURL string, client *http.Client) *Downloader {
	return &Downloader{
		httpClient: client,
		baseURL:    baseURL,
		maxWidth:   defaultMaxWidth,
	}
}

// Download fetches the cover for coverID, resizes it to the maximum width
// and saves it under dir as "<title> - cover.jpg". An existing file is kept
// unless update is set. Returns the saved path, or "" when skipped.
func (d *Downloader) Download(ctx context.Context, coverID int, dir, title string, update bool) (string, error) {
	if coverID <= 0 {
		return "", fmt.Errorf("invalid cover ID: %d", coverID)
	}

	filename := fileutil.SanitizeFilename(title) + " - cover.jpg"
	savePath := filepath.Join(dir, filename)
	if fileutil.FileExists(savePath) && !update {
		slog.Debug("Cover already exists, skipping", "path", savePath)
		return savePath, nil
	}

	imageURL := fmt.Sprintf("%s/b/id/%d-L.jpg", d.baseURL, coverID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d downloading cover", resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}

	if img.Bounds().Dx() > d.maxWidth {
		img = imaging.Resize(img, d.maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	if err := imaging.Save(img, savePath, imaging.JPEGQuality(85)); err != nil {
		return "", err
	}
	return savePath, nil
}
