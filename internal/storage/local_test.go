package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestLocalLibraryLookup(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Dark Ambient.mp3", "upbeat.wav", "notes.txt")

	library := NewLocalLibrary(dir)

	tests := []struct {
		name     string
		query    string
		wantFile string
		wantErr  bool
	}{
		{name: "exact", query: "upbeat", wantFile: "upbeat.wav"},
		{name: "caseInsensitive", query: "dark ambient", wantFile: "Dark Ambient.mp3"},
		{name: "missing", query: "nonexistent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := library.Lookup(context.Background(), tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Lookup() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() error: %v", err)
			}
			if filepath.Base(path) != tt.wantFile {
				t.Errorf("Lookup() = %q, want %q", path, tt.wantFile)
			}
		})
	}
}

func TestLocalLibraryList(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "chill.mp3", "energy.WAV", "cover.png", "readme.txt")

	library := NewLocalLibrary(dir)

	names, err := library.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List() = %v, want audio files only", names)
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "chill") || !strings.Contains(joined, "energy") {
		t.Errorf("List() = %v", names)
	}
}

func TestLocalLibraryMissingDir(t *testing.T) {
	library := NewLocalLibrary(filepath.Join(t.TempDir(), "absent"))

	if _, err := library.Lookup(context.Background(), "anything"); err == nil {
		t.Error("Lookup() should fail for a missing directory")
	}
	if _, err := library.List(context.Background()); err == nil {
		t.Error("List() should fail for a missing directory")
	}
}

func TestLocalLibraryEnsureDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "music")
	library := NewLocalLibrary(dir)

	if err := library.EnsureDirectory(); err != nil {
		t.Fatalf("EnsureDirectory() error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}
