package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestSynthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Errorf("xi-api-key = %q", r.Header.Get("xi-api-key"))
		}

		var req synthesisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "hello world" || req.ModelID != "eleven_multilingual_v2" {
			t.Errorf("request = %+v", req)
		}
		if req.VoiceSettings.Stability != 0.5 {
			t.Errorf("stability = %v", req.VoiceSettings.Stability)
		}

		_, _ = w.Write([]byte("mp3 bytes"))
	}))
	defer server.Close()

	client := NewClient(Config{
		APIKey:     "test-key",
		VoiceID:    "voice-1",
		Model:      "eleven_multilingual_v2",
		Stability:  0.5,
		Similarity: 0.75,
		BaseURL:    server.URL,
	})

	path := filepath.Join(t.TempDir(), "audio.mp3")
	got, err := client.Synthesize(context.Background(), "hello world", path)
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	if got != path {
		t.Errorf("Synthesize() = %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if string(data) != "mp3 bytes" {
		t.Errorf("audio content = %q", data)
	}
}

func TestSynthesizeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "invalid key"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", VoiceID: "v", BaseURL: server.URL})

	path := filepath.Join(t.TempDir(), "audio.mp3")
	if _, err := client.Synthesize(context.Background(), "hi", path); err == nil {
		t.Error("Synthesize() should surface the API error")
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Error("no audio file should be written on failure")
	}
}
