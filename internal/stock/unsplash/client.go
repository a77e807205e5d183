package unsplash

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
	defaultBaseURL = "https://api.unsplash.com"
	searchTimeout  = 15 * time.Second
	perPage        = 15
)

type Client struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

type Config struct {
	AccessKey string
	BaseURL   string
}

type searchResponse struct {
	Results []result `json:"results"`
}

type result struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Likes  int  `json:"likes"`
	URLs   urls `json:"urls"`
}

type urls struct {
	Full string `json:"full"`
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		accessKey:  cfg.AccessKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: searchTimeout},
	}
}

func (c *Client) Name() string { return "unsplash" }

func (c *Client) Search(ctx context.Context, query string, landscape bool) ([]stock.Candidate, error) {
	orientation := "landscape"
	if !landscape {
		orientation = "portrait"
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", orientation)
	params.Set("per_page", fmt.Sprintf("%d", perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/search/videos?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unsplash api error: %s, body: %s", resp.Status, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	candidates := make([]stock.Candidate, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.URLs.Full == "" {
			continue
		}
		candidates = append(candidates, stock.Candidate{
			URL:        r.URLs.Full,
			Width:      r.Width,
			Height:     r.Height,
			Popularity: r.Likes,
		})
	}
	return candidates, nil
}
