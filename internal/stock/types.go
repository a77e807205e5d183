package stock

import (
	"context"
	"strings"
)

// Candidate is one search hit from a stock footage provider.
type Candidate struct {
	URL        string
	Width      int
	Height     int
	Popularity int
}

// Provider searches one external stock footage source. Implementations are
// thin REST wrappers; ranking and orientation filtering happen in the
// Resolver so every source is judged by the same rules.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, landscape bool) ([]Candidate, error)
}

// UsedSet tracks the clips already placed in the current run so the same
// footage never appears twice in one video. Scoped to a single run.
type UsedSet struct {
	ids map[string]struct{}
}

func NewUsedSet() *UsedSet {
	return &UsedSet{ids: make(map[string]struct{})}
}

func (s *UsedSet) Add(url string) {
	s.ids[NormalizeAssetID(url)] = struct{}{}
}

func (s *UsedSet) Contains(url string) bool {
	_, ok := s.ids[NormalizeAssetID(url)]
	return ok
}

func (s *UsedSet) Len() int { return len(s.ids) }

// NormalizeAssetID reduces a clip URL to a stable identifier. Providers serve
// the same clip under several rendition URLs, so the query string and the
// rendition suffix (".hd", ".sd", ".uhd") are stripped before comparison.
func NormalizeAssetID(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	for _, suffix := range []string{".hd", ".sd", ".uhd"} {
		if i := strings.Index(url, suffix); i >= 0 {
			return url[:i]
		}
	}
	return url
}
