package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"storyreel/internal/stock"
)

const (
	defaultBaseURL = "https://api.pexels.com/videos"
	searchTimeout  = 15 * time.Second
	perPage        = 15
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type Config struct {
	APIKey  string
	BaseURL string
}

type searchResponse struct {
	Videos []video `json:"videos"`
}

type video struct {
	ID         int         `json:"id"`
	Duration   int         `json:"duration"`
	VideoFiles []videoFile `json:"video_files"`
}

type videoFile struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Quality string `json:"quality"`
	Link    string `json:"link"`
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: searchTimeout},
	}
}

func (c *Client) Name() string { return "pexels" }

func (c *Client) Search(ctx context.Context, query string, landscape bool) ([]stock.Candidate, error) {
	orientation := "landscape"
	if !landscape {
		orientation = "portrait"
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", orientation)
	params.Set("per_page", fmt.Sprintf("%d", perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pexels api error: %s, body: %s", resp.Status, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return toCandidates(parsed), nil
}

// Pexels exposes no download or like counts, so candidates keep the API's
// relevance order and a stable sort downstream preserves it.
func toCandidates(parsed searchResponse) []stock.Candidate {
	var candidates []stock.Candidate
	for _, v := range parsed.Videos {
		for _, f := range v.VideoFiles {
			if f.Link == "" {
				continue
			}
			candidates = append(candidates, stock.Candidate{
				URL:    f.Link,
				Width:  f.Width,
				Height: f.Height,
			})
		}
	}
	return candidates
}
