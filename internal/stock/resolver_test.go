package stock

import (
	"context"
	"errors"
	"testing"
)

type fakeProvider struct {
	name       string
	candidates []Candidate
	err        error
	calls      int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, query string, landscape bool) ([]Candidate, error) {
	f.calls++
	return f.candidates, f.err
}

func TestFilterCandidates(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		landscape bool
		wantKept  bool
	}{
		{
			name:      "landscapeFullHD",
			candidate: Candidate{URL: "a", Width: 1920, Height: 1080},
			landscape: true,
			wantKept:  true,
		},
		{
			name:      "landscapeTooSmall",
			candidate: Candidate{URL: "a", Width: 1280, Height: 720},
			landscape: true,
			wantKept:  false,
		},
		{
			name:      "landscapeWrongAspect",
			candidate: Candidate{URL: "a", Width: 2000, Height: 2000},
			landscape: true,
			wantKept:  false,
		},
		{
			name:      "verticalFullHD",
			candidate: Candidate{URL: "a", Width: 1080, Height: 1920},
			landscape: false,
			wantKept:  true,
		},
		{
			name:      "verticalTooSmall",
			candidate: Candidate{URL: "a", Width: 720, Height: 1280},
			landscape: false,
			wantKept:  false,
		},
		{
			name:      "verticalSlightlyOffAspect",
			candidate: Candidate{URL: "a", Width: 1080, Height: 2000},
			landscape: false,
			wantKept:  true,
		},
		{
			name:      "zeroDimensions",
			candidate: Candidate{URL: "a", Width: 0, Height: 0},
			landscape: true,
			wantKept:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := filterCandidates([]Candidate{tt.candidate}, tt.landscape)
			if (len(kept) == 1) != tt.wantKept {
				t.Errorf("filterCandidates() kept=%v, want %v", len(kept) == 1, tt.wantKept)
			}
		})
	}
}

func TestPickBestPrefersPopularity(t *testing.T) {
	candidates := []Candidate{
		{URL: "low", Width: 1920, Height: 1080, Popularity: 5},
		{URL: "high", Width: 1920, Height: 1080, Popularity: 50},
		{URL: "mid", Width: 1920, Height: 1080, Popularity: 20},
	}

	url, ok := pickBest(candidates, true, NewUsedSet())
	if !ok || url != "high" {
		t.Errorf("pickBest() = %q, %v; want \"high\", true", url, ok)
	}
}

func TestPickBestKeepsRelevanceOrderOnTies(t *testing.T) {
	candidates := []Candidate{
		{URL: "first", Width: 1920, Height: 1080},
		{URL: "second", Width: 1920, Height: 1080},
	}

	url, ok := pickBest(candidates, true, NewUsedSet())
	if !ok || url != "first" {
		t.Errorf("pickBest() = %q, %v; want \"first\", true", url, ok)
	}
}

func TestPickBestSkipsUsed(t *testing.T) {
	used := NewUsedSet()
	used.Add("https://cdn.example.com/clip1.hd.mp4")

	candidates := []Candidate{
		{URL: "https://cdn.example.com/clip1.sd.mp4?w=640", Width: 1920, Height: 1080, Popularity: 99},
		{URL: "https://cdn.example.com/clip2.hd.mp4", Width: 1920, Height: 1080, Popularity: 1},
	}

	url, ok := pickBest(candidates, true, used)
	if !ok || url != "https://cdn.example.com/clip2.hd.mp4" {
		t.Errorf("pickBest() = %q, want the unused clip2", url)
	}
}

func TestResolveFallsThroughProviders(t *testing.T) {
	failing := &fakeProvider{name: "broken", err: errors.New("timeout")}
	empty := &fakeProvider{name: "empty"}
	good := &fakeProvider{
		name: "good",
		candidates: []Candidate{
			{URL: "https://cdn.example.com/ok.mp4", Width: 1920, Height: 1080},
		},
	}

	resolver := NewResolver(failing, empty, good)

	url, ok := resolver.Resolve(context.Background(), "city", true, NewUsedSet())
	if !ok || url != "https://cdn.example.com/ok.mp4" {
		t.Fatalf("Resolve() = %q, %v", url, ok)
	}
	if failing.calls != 1 || empty.calls != 1 || good.calls != 1 {
		t.Errorf("providers called %d/%d/%d times, want 1/1/1", failing.calls, empty.calls, good.calls)
	}
}

func TestResolveMarksPickUsed(t *testing.T) {
	provider := &fakeProvider{
		name: "ranked",
		candidates: []Candidate{
			{URL: "https://cdn.example.com/popular.hd.mp4", Width: 1920, Height: 1080, Popularity: 99},
			{URL: "https://cdn.example.com/other.hd.mp4", Width: 1920, Height: 1080, Popularity: 1},
		},
	}
	resolver := NewResolver(provider)
	used := NewUsedSet()

	first, ok := resolver.Resolve(context.Background(), "city", true, used)
	if !ok || first != "https://cdn.example.com/popular.hd.mp4" {
		t.Fatalf("first Resolve() = %q, %v", first, ok)
	}

	second, ok := resolver.Resolve(context.Background(), "city", true, used)
	if !ok {
		t.Fatal("second Resolve() should fall back to the remaining clip")
	}
	if second == first {
		t.Errorf("same clip resolved twice: %q", second)
	}

	if _, ok := resolver.Resolve(context.Background(), "city", true, used); ok {
		t.Error("third Resolve() should miss, both clips are used")
	}
	if used.Len() != 2 {
		t.Errorf("used set holds %d ids, want 2", used.Len())
	}
}

func TestResolveExhausted(t *testing.T) {
	resolver := NewResolver(&fakeProvider{name: "empty"})

	if url, ok := resolver.Resolve(context.Background(), "city", true, NewUsedSet()); ok {
		t.Errorf("Resolve() = %q, true; want miss", url)
	}
}

func TestNormalizeAssetID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://v.example.com/clip.hd.mp4", "https://v.example.com/clip"},
		{"https://v.example.com/clip.sd.mp4?download=1", "https://v.example.com/clip"},
		{"https://v.example.com/clip.uhd.mp4", "https://v.example.com/clip"},
		{"https://v.example.com/clip.mp4", "https://v.example.com/clip.mp4"},
	}

	for _, tt := range tests {
		if got := NormalizeAssetID(tt.url); got != tt.want {
			t.Errorf("NormalizeAssetID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
