package unsplash

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/videos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Client-ID test-key" {
			t.Errorf("Authorization = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{"width": 1920, "height": 1080, "likes": 77, "urls": {"full": "https://media.unsplash.test/a.mp4"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{AccessKey: "test-key", BaseURL: server.URL})

	candidates, err := client.Search(context.Background(), "forest", true)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].Popularity != 77 {
		t.Errorf("popularity = %d, want 77", candidates[0].Popularity)
	}
	if candidates[0].URL != "https://media.unsplash.test/a.mp4" {
		t.Errorf("url = %q", candidates[0].URL)
	}
}
