package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("Authorization = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("orientation"); got != "portrait" {
			t.Errorf("orientation = %q, want portrait", got)
		}
		if got := r.URL.Query().Get("query"); got != "ocean waves" {
			t.Errorf("query = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"videos": [
				{
					"id": 1,
					"duration": 12,
					"video_files": [
						{"width": 1080, "height": 1920, "quality": "hd", "link": "https://v.pexels.test/a.hd.mp4"},
						{"width": 540, "height": 960, "quality": "sd", "link": "https://v.pexels.test/a.sd.mp4"}
					]
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	candidates, err := client.Search(context.Background(), "ocean waves", false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].URL != "https://v.pexels.test/a.hd.mp4" {
		t.Errorf("first candidate URL = %q", candidates[0].URL)
	}
	if candidates[0].Width != 1080 || candidates[0].Height != 1920 {
		t.Errorf("first candidate dims = %dx%d", candidates[0].Width, candidates[0].Height)
	}
	if candidates[0].Popularity != 0 {
		t.Errorf("pexels popularity should be zero, got %d", candidates[0].Popularity)
	}
}

func TestSearchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL})

	if _, err := client.Search(context.Background(), "ocean", true); err == nil {
		t.Fatal("expected error on 401 response")
	}
}
