package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"storyreel/internal/stock"
)

const defaultDatasetPath = "assets/dataset_local.json"

// Catalog serves clips from a curated on-disk dataset instead of an external
// API. Matching is keyword-against-tags, so it is only as good as the
// dataset's tagging.
type Catalog struct {
	path string
}

type dataset struct {
	Videos []entry `json:"videos"`
}

type entry struct {
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	Orientation string   `json:"orientation"`
	Resolution  string   `json:"resolution"`
	Rank        int      `json:"rank"`
}

func NewCatalog(path string) *Catalog {
	if path == "" {
		path = defaultDatasetPath
	}
	return &Catalog{path: path}
}

func (c *Catalog) Name() string { return "local" }

func (c *Catalog) Search(ctx context.Context, query string, landscape bool) ([]stock.Candidate, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var db dataset
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	orientation := "landscape"
	if !landscape {
		orientation = "portrait"
	}
	keywords := strings.Fields(strings.ToLower(query))

	var candidates []stock.Candidate
	for _, video := range db.Videos {
		if !strings.EqualFold(video.Orientation, orientation) {
			continue
		}
		if !matchesTags(video.Tags, keywords) {
			continue
		}
		width, height, err := parseResolution(video.Resolution)
		if err != nil {
			continue
		}
		candidates = append(candidates, stock.Candidate{
			URL:        video.URL,
			Width:      width,
			Height:     height,
			Popularity: video.Rank,
		})
	}
	return candidates, nil
}

// Partial matches count: "cityscape" satisfies the keyword "city".
func matchesTags(tags, keywords []string) bool {
	for _, keyword := range keywords {
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(strings.TrimSpace(tag)), keyword) {
				return true
			}
		}
	}
	return false
}

func parseResolution(res string) (int, int, error) {
	parts := strings.Split(res, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution %q", res)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q", res)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q", res)
	}
	return width, height, nil
}
