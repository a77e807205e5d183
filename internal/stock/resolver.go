package stock

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

const (
	aspectTolerance = 0.1

	minLandscapeWidth  = 1920
	minLandscapeHeight = 1080
	minVerticalWidth   = 1080
	minVerticalHeight  = 1920
)

// Resolver picks the best unused clip for a query, trying providers in the
// priority order the run was configured with. A provider error is logged and
// skipped; exhausting all providers is not an error, the caller falls back to
// its next ranked query.
type Resolver struct {
	providers []Provider
}

func NewResolver(providers ...Provider) *Resolver {
	return &Resolver{providers: providers}
}

func (r *Resolver) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Resolve returns the URL of the most popular candidate that passes the
// orientation filter and is not in used. A successful pick is added to used,
// so the same clip can never resolve twice in one run. The second return is
// false when no provider had a usable match.
func (r *Resolver) Resolve(ctx context.Context, query string, landscape bool, used *UsedSet) (string, bool) {
	for _, provider := range r.providers {
		candidates, err := provider.Search(ctx, query, landscape)
		if err != nil {
			slog.Warn("provider search failed", "provider", provider.Name(), "query", query, "error", err)
			continue
		}

		if url, ok := pickBest(candidates, landscape, used); ok {
			used.Add(url)
			return url, true
		}
		slog.Debug("no usable candidate", "provider", provider.Name(), "query", query)
	}
	return "", false
}

func pickBest(candidates []Candidate, landscape bool, used *UsedSet) (string, bool) {
	filtered := filterCandidates(candidates, landscape)
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Popularity > filtered[j].Popularity
	})

	for _, c := range filtered {
		if c.URL == "" || used.Contains(c.URL) {
			continue
		}
		return c.URL, true
	}
	return "", false
}

// filterCandidates keeps candidates meeting the minimum dimensions for the
// orientation whose aspect ratio is within tolerance of 16:9 (9:16 inverted
// for vertical).
func filterCandidates(candidates []Candidate, landscape bool) []Candidate {
	var filtered []Candidate
	for _, c := range candidates {
		if c.Width <= 0 || c.Height <= 0 {
			continue
		}
		if landscape {
			if c.Width < minLandscapeWidth || c.Height < minLandscapeHeight {
				continue
			}
			if math.Abs(float64(c.Width)/float64(c.Height)-16.0/9.0) >= aspectTolerance {
				continue
			}
		} else {
			if c.Width < minVerticalWidth || c.Height < minVerticalHeight {
				continue
			}
			if math.Abs(float64(c.Height)/float64(c.Width)-16.0/9.0) >= aspectTolerance {
				continue
			}
		}
		filtered = append(filtered, c)
	}
	return filtered
}
