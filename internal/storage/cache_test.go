package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestFetchLocalPathPassesThrough(t *testing.T) {
	downloader := NewDownloader(t.TempDir(), nil)

	got, err := downloader.Fetch(context.Background(), "/assets/clip.mp4")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if got != "/assets/clip.mp4" {
		t.Errorf("Fetch() = %q, want the path unchanged", got)
	}
}

func TestFetchDownloadsAndCaches(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("clip bytes"))
	}))
	defer server.Close()

	downloader := NewDownloader(t.TempDir(), nil)
	url := server.URL + "/videos/clip.mp4"

	first, err := downloader.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "clip bytes" {
		t.Errorf("cached content = %q", data)
	}

	second, err := downloader.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("second Fetch() error: %v", err)
	}
	if second != first {
		t.Errorf("cache miss on repeat fetch: %q vs %q", second, first)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	downloader := NewDownloader(t.TempDir(), nil)

	if _, err := downloader.Fetch(context.Background(), server.URL+"/missing.mp4"); err == nil {
		t.Error("Fetch() should surface a non-200 response")
	}
}

func TestCachePathExtension(t *testing.T) {
	downloader := NewDownloader("/cache", nil)

	tests := []struct {
		url     string
		wantExt string
	}{
		{"https://cdn.example.com/a.mp4?token=abc", ".mp4"},
		{"https://cdn.example.com/a.webm", ".webm"},
		{"https://cdn.example.com/no-extension", ".mp4"},
	}

	for _, tt := range tests {
		path := downloader.cachePath(tt.url)
		if got := path[len(path)-len(tt.wantExt):]; got != tt.wantExt {
			t.Errorf("cachePath(%q) = %q, want %q suffix", tt.url, path, tt.wantExt)
		}
	}
}
