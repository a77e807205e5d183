package uploader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func authWithToken(t *testing.T) *YouTubeAuth {
	t.Helper()

	tokenPath := filepath.Join(t.TempDir(), "token.json")
	token := oauth2.Token{
		AccessToken: "test-access-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}
	data, err := json.Marshal(token)
	if err != nil {
		t.Fatalf("marshal token: %v", err)
	}
	if err := os.WriteFile(tokenPath, data, 0600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	return NewYouTubeAuth("client-id", "client-secret", tokenPath)
}

func TestUpload(t *testing.T) {
	var gotSnippet videoMetadata
	var thumbnailVideoID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/upload/videos"):
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			snippet := r.FormValue("snippet")
			if err := json.Unmarshal([]byte(snippet), &gotSnippet); err != nil {
				t.Errorf("decode snippet: %v", err)
			}
			if _, _, err := r.FormFile("file"); err != nil {
				t.Errorf("video part missing: %v", err)
			}
			_ = json.NewEncoder(w).Encode(youtubeUploadResponse{ID: "abc123", Kind: "youtube#video"})
		case strings.HasPrefix(r.URL.Path, "/upload/thumbnails"):
			thumbnailVideoID = r.URL.Query().Get("videoId")
			if ct := r.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("thumbnail content type = %q", ct)
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
		}
	}))
	defer server.Close()

	uploader := NewYouTubeUploader(authWithToken(t))
	uploader.uploadURL = server.URL + "/upload/videos"
	uploader.thumbnailURL = server.URL + "/upload/thumbnails"

	dir := t.TempDir()
	videoPath := filepath.Join(dir, "final.mp4")
	thumbPath := filepath.Join(dir, "thumbnail.png")
	_ = os.WriteFile(videoPath, []byte("video"), 0644)
	_ = os.WriteFile(thumbPath, []byte("png"), 0644)

	resp, err := uploader.Upload(context.Background(), UploadRequest{
		FilePath:      videoPath,
		ThumbnailPath: thumbPath,
		Title:         "Deep Sea Secrets",
		Description:   "Five facts.",
		Tags:          []string{"ocean", "facts"},
		Privacy:       "private",
	})
	if err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	if resp.ID != "abc123" || resp.Platform != "youtube" {
		t.Errorf("response = %+v", resp)
	}
	if !strings.Contains(resp.URL, "abc123") {
		t.Errorf("watch URL = %q", resp.URL)
	}
	if gotSnippet.Snippet.Title != "Deep Sea Secrets" || gotSnippet.Snippet.CategoryID != youtubeCategoryID {
		t.Errorf("snippet = %+v", gotSnippet.Snippet)
	}
	if gotSnippet.Status.PrivacyStatus != "private" {
		t.Errorf("privacy = %q", gotSnippet.Status.PrivacyStatus)
	}
	if thumbnailVideoID != "abc123" {
		t.Errorf("thumbnail videoId = %q", thumbnailVideoID)
	}
}

func TestUploadSkipsThumbnailWhenAbsent(t *testing.T) {
	var thumbnailCalled bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/upload/thumbnails") {
			thumbnailCalled = true
		}
		_ = json.NewEncoder(w).Encode(youtubeUploadResponse{ID: "xyz"})
	}))
	defer server.Close()

	uploader := NewYouTubeUploader(authWithToken(t))
	uploader.uploadURL = server.URL + "/upload/videos"
	uploader.thumbnailURL = server.URL + "/upload/thumbnails"

	videoPath := filepath.Join(t.TempDir(), "final.mp4")
	_ = os.WriteFile(videoPath, []byte("video"), 0644)

	if _, err := uploader.Upload(context.Background(), UploadRequest{FilePath: videoPath, Title: "T"}); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if thumbnailCalled {
		t.Error("thumbnail endpoint hit without a thumbnail path")
	}
}

func TestUploadAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	uploader := NewYouTubeUploader(authWithToken(t))
	uploader.uploadURL = server.URL + "/upload/videos"

	videoPath := filepath.Join(t.TempDir(), "final.mp4")
	_ = os.WriteFile(videoPath, []byte("video"), 0644)

	_, err := uploader.Upload(context.Background(), UploadRequest{FilePath: videoPath, Title: "T"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Upload() error = %v, want quota message", err)
	}
}

func TestSetPrivacy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["id"] != "abc123" {
			t.Errorf("video id = %v", body["id"])
		}
		status, _ := body["status"].(map[string]any)
		if status["privacyStatus"] != "public" {
			t.Errorf("privacy = %v", status["privacyStatus"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	uploader := NewYouTubeUploader(authWithToken(t))
	uploader.videosURL = server.URL + "/videos"

	if err := uploader.SetPrivacy(context.Background(), "abc123", "public"); err != nil {
		t.Fatalf("SetPrivacy() error: %v", err)
	}
}

func TestAuthTokenRoundTrip(t *testing.T) {
	auth := authWithToken(t)

	if !auth.IsAuthenticated() {
		t.Error("IsAuthenticated() = false with a valid token on disk")
	}

	missing := NewYouTubeAuth("id", "secret", filepath.Join(t.TempDir(), "absent.json"))
	if missing.IsAuthenticated() {
		t.Error("IsAuthenticated() = true without a token")
	}
}
