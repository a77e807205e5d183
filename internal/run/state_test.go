package run

import (
	"strings"
	"testing"

	"storyreel/internal/captions"
)

func newTestDir(t *testing.T) *Dir {
	t.Helper()
	dir, err := NewDir(t.TempDir(), "vid_test")
	if err != nil {
		t.Fatalf("NewDir() error: %v", err)
	}
	return dir
}

func TestStoreSaveLoad(t *testing.T) {
	store := NewStore(newTestDir(t))

	state := &State{
		ID:       "vid_test",
		Vertical: true,
		Quality:  "HD",
		Script:   "a short script",
		Captions: []captions.TimedCaption{{Start: 0, End: 3, Text: "a short script"}},
	}

	if err := store.Save(state); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() returned nil after save")
	}
	if loaded.Script != state.Script || !loaded.Vertical || len(loaded.Captions) != 1 {
		t.Errorf("loaded state differs: %+v", loaded)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(newTestDir(t))

	state, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if state != nil {
		t.Errorf("Load() = %+v, want nil for missing snapshot", state)
	}
}

func TestStoreWriteOnce(t *testing.T) {
	store := NewStore(newTestDir(t))

	first := &State{ID: "vid_test", Script: "original"}
	if err := store.Save(first); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Appending new fields to the same state is fine.
	first.AudioPath = "audio.wav"
	if err := store.Save(first); err != nil {
		t.Fatalf("Save() with new field error: %v", err)
	}

	// Rewriting a populated field is not.
	mutated := &State{ID: "vid_test", Script: "rewritten", AudioPath: "audio.wav"}
	err := store.Save(mutated)
	if err == nil {
		t.Fatal("Save() should reject mutation of a populated field")
	}
	if !strings.Contains(err.Error(), "script") {
		t.Errorf("error should name the violated field: %v", err)
	}
}

func TestNarrationScript(t *testing.T) {
	state := &State{Script: "english"}
	if got := state.NarrationScript(); got != "english" {
		t.Errorf("NarrationScript() = %q", got)
	}

	state.TranslatedScript = "francais"
	if got := state.NarrationScript(); got != "francais" {
		t.Errorf("NarrationScript() should prefer the translation, got %q", got)
	}
}

func TestFinalVideoPath(t *testing.T) {
	dir := newTestDir(t)

	path := dir.FinalVideoPath("Deep Sea: Five Facts!")
	if !strings.HasSuffix(path, ".mp4") {
		t.Errorf("path %q should end in .mp4", path)
	}
	if !strings.Contains(path, "deep_sea_five_facts") {
		t.Errorf("path %q should contain the sanitized title", path)
	}

	untitled := dir.FinalVideoPath("!!!")
	if !strings.Contains(untitled, "untitled") {
		t.Errorf("path %q should fall back to untitled", untitled)
	}
}

func TestSidecarPath(t *testing.T) {
	if got := SidecarPath("/videos/run/final.mp4"); got != "/videos/run/final.txt" {
		t.Errorf("SidecarPath() = %q", got)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if !strings.HasPrefix(a, "vid_") {
		t.Errorf("NewID() = %q, want vid_ prefix", a)
	}
	if a == b {
		t.Error("consecutive ids should differ")
	}
}
