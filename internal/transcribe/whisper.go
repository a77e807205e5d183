package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultWhisperURL = "http://localhost:9000"
	whisperTimeout    = 10 * time.Minute
)

// WhisperClient talks to a local whisper inference server and asks for
// word-level timestamps in verbose JSON form.
type WhisperClient struct {
	baseURL    string
	model      string
	language   string
	httpClient *http.Client
}

type WhisperConfig struct {
	ServerURL string
	Model     string
	Language  string
}

type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperResponse struct {
	Words    []whisperWord `json:"words"`
	Segments []struct {
		Words []whisperWord `json:"words"`
	} `json:"segments"`
}

func NewWhisperClient(cfg WhisperConfig) *WhisperClient {
	baseURL := cfg.ServerURL
	if baseURL == "" {
		baseURL = defaultWhisperURL
	}
	return &WhisperClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      cfg.Model,
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: whisperTimeout},
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string) ([]WordTiming, error) {
	body, contentType, err := c.buildRequestBody(audioPath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcribe request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("whisper server error: %s, body: %s", resp.Status, string(data))
	}

	return parseWhisperResponse(resp.Body)
}

func (c *WhisperClient) buildRequestBody(audioPath string) (io.Reader, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}

	fields := map[string]string{
		"response_format": "verbose_json",
		"word_timestamps": "true",
	}
	if c.model != "" {
		fields["model"] = c.model
	}
	if c.language != "" {
		fields["language"] = c.language
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func parseWhisperResponse(body io.Reader) ([]WordTiming, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed whisperResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	words := parsed.Words
	if len(words) == 0 {
		for _, segment := range parsed.Segments {
			words = append(words, segment.Words...)
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no word timestamps in transcription")
	}

	timings := make([]WordTiming, 0, len(words))
	for _, w := range words {
		word := strings.TrimSpace(w.Word)
		if word == "" {
			continue
		}
		timings = append(timings, WordTiming{Word: word, Start: w.Start, End: w.End})
	}
	return timings, nil
}
