package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"storyreel/internal/captions"
)

var (
	fenceOpenRegex  = regexp.MustCompile("^\\s*```(?:json)?\\s*")
	fenceCloseRegex = regexp.MustCompile("\\s*```\\s*$")
)

// StripCodeFence removes a surrounding Markdown code fence. Models wrap JSON
// answers in ```json blocks regardless of prompt instructions.
func StripCodeFence(s string) string {
	s = fenceOpenRegex.ReplaceAllString(s, "")
	s = fenceCloseRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

type scriptPayload struct {
	Script string `json:"script"`
}

func parseScript(raw string) (string, error) {
	var payload scriptPayload
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &payload); err != nil {
		return "", fmt.Errorf("parse script response: %w", err)
	}
	if payload.Script == "" {
		return "", fmt.Errorf("script field empty in response")
	}
	return payload.Script, nil
}

func parseMetadata(raw string) (Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &meta); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata response: %w", err)
	}
	if meta.Title == "" {
		return Metadata{}, fmt.Errorf("title field empty in response")
	}
	return meta, nil
}

// The query response is an array of [[start, end], [q1, q2, q3]] pairs.
func parseTimedQueries(raw string) ([]captions.TimedQueries, error) {
	var rows [][2]json.RawMessage
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &rows); err != nil {
		return nil, fmt.Errorf("parse query response: %w", err)
	}

	result := make([]captions.TimedQueries, 0, len(rows))
	for i, row := range rows {
		var window [2]float64
		if err := json.Unmarshal(row[0], &window); err != nil {
			return nil, fmt.Errorf("parse window %d: %w", i, err)
		}
		var queries []string
		if err := json.Unmarshal(row[1], &queries); err != nil {
			return nil, fmt.Errorf("parse queries %d: %w", i, err)
		}
		result = append(result, captions.TimedQueries{
			Start:   window[0],
			End:     window[1],
			Queries: queries,
		})
	}
	return result, nil
}

func captionsTranscript(caps []captions.TimedCaption) string {
	var sb strings.Builder
	for _, c := range caps {
		fmt.Fprintf(&sb, "[%.2f, %.2f] %s\n", c.Start, c.End, c.Text)
	}
	return sb.String()
}
