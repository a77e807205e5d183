package storage

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"storyreel/pkg/httputil"
)

// Downloader fetches remote clips into a content-addressed local cache so a
// resumed run never re-downloads footage it already has.
type Downloader struct {
	cacheDir string
	client   *httputil.RetryClient
}

func NewDownloader(cacheDir string, client *httputil.RetryClient) *Downloader {
	if client == nil {
		client = httputil.NewRetryClient(nil, httputil.RetryOptions{})
	}
	return &Downloader{cacheDir: cacheDir, client: client}
}

// Fetch returns the local path for rawURL, downloading on a cache miss.
// Local paths pass through untouched.
func (d *Downloader) Fetch(ctx context.Context, rawURL string) (string, error) {
	if !isRemote(rawURL) {
		return rawURL, nil
	}

	localPath := d.cachePath(rawURL)
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	if err := os.MkdirAll(d.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: %s", rawURL, resp.Status)
	}

	tmpPath := localPath + ".part"
	file, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("create cache file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write cache file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close cache file: %w", err)
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		return "", fmt.Errorf("finalize cache file: %w", err)
	}
	return localPath, nil
}

func (d *Downloader) cachePath(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	ext := filepath.Ext(trimQuery(rawURL))
	if ext == "" || len(ext) > 5 {
		ext = ".mp4"
	}
	return filepath.Join(d.cacheDir, fmt.Sprintf("%x%s", sum[:12], ext))
}

func isRemote(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func trimQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
