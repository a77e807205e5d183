package pixabay

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
	defaultBaseURL = "https://pixabay.com/api/videos/"
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
	Hits []hit `json:"hits"`
}

type hit struct {
	Downloads int        `json:"downloads"`
	Videos    renditions `json:"videos"`
}

type renditions struct {
	Large rendition `json:"large"`
}

type rendition struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
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

func (c *Client) Name() string { return "pixabay" }

func (c *Client) Search(ctx context.Context, query string, landscape bool) ([]stock.Candidate, error) {
	orientation := "horizontal"
	if !landscape {
		orientation = "vertical"
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query)
	params.Set("orientation", orientation)
	params.Set("per_page", fmt.Sprintf("%d", perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pixabay api error: %s, body: %s", resp.Status, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	candidates := make([]stock.Candidate, 0, len(parsed.Hits))
	for _, h := range parsed.Hits {
		if h.Videos.Large.URL == "" {
			continue
		}
		candidates = append(candidates, stock.Candidate{
			URL:        h.Videos.Large.URL,
			Width:      h.Videos.Large.Width,
			Height:     h.Videos.Large.Height,
			Popularity: h.Downloads,
		})
	}
	return candidates, nil
}
