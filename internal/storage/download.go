package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
)

// Downloader fetches the raw input files from their public URLs into the
// raw data directory.
type Downloader struct {
	logger *slog.Logger
	client *http.Client
}

// NewDownloader creates a downloader with a sane default timeout.
func NewDownloader(logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		logger: logger,
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// DownloadRawData fetches every URL into rawDir, named by the last path
// segment of the URL. It stops on the first failure; a half-fetched file
// is removed so reruns start clean.
func (d *Downloader) DownloadRawData(ctx context.Context, urls []string, rawDir string) error {
	if err := os.MkdirAll(rawDir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create raw data directory", err)
	}

	for _, rawURL := range urls {
		if err := d.downloadFile(ctx, rawURL, rawDir); err != nil {
			return err
		}
	}

	d.logger.InfoContext(ctx, "raw data download complete",
		slog.Int("file_count", len(urls)))

	return nil
}

func (d *Downloader) downloadFile(ctx context.Context, rawURL, rawDir string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("invalid raw data URL %q", rawURL), err)
	}
	filename := path.Base(u.Path)
	localPath := filepath.Join(rawDir, filename)

	d.logger.InfoContext(ctx, "downloading raw data file",
		slog.String("url", rawURL),
		slog.String("path", localPath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return apperrors.NewNetworkError("failed to build download request", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return apperrors.NewNetworkError(fmt.Sprintf("failed to download %s", filename), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewNetworkError(
			fmt.Sprintf("download of %s returned status %d", filename, resp.StatusCode), nil)
	}

	file, err := os.Create(localPath)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", localPath), err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(localPath)
		return apperrors.NewNetworkError(fmt.Sprintf("failed to write %s", filename), err)
	}

	return file.Close()
}
