package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/conneroisu/groq-go"

	"storyreel/internal/captions"
	"storyreel/pkg/prompts"
)

const (
	maxRateLimitRetries = 5
	baseRetryDelay      = time.Second
	parseAttempts       = 3
)

type GroqClient struct {
	client  *groq.Client
	model   groq.ChatModel
	prompts *prompts.Prompts
	sleep   func(time.Duration)
}

func NewGroqClient(apiKey, model string, p *prompts.Prompts) (*GroqClient, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &GroqClient{
		client:  client,
		model:   groq.ChatModel(model),
		prompts: p,
		sleep:   time.Sleep,
	}, nil
}

func (c *GroqClient) GenerateScript(ctx context.Context, description, language string) (string, error) {
	prompt, err := c.prompts.RenderScript(prompts.ScriptParams{
		Description: description,
		Language:    language,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	// A malformed answer is not fatal: log it and ask again with the same
	// prompt, up to the attempt cap.
	var lastErr error
	for attempt := 0; attempt < parseAttempts; attempt++ {
		raw, err := c.complete(ctx, c.prompts.System.Script, prompt, 1.0)
		if err != nil {
			return "", err
		}
		script, err := parseScript(raw)
		if err == nil {
			return script, nil
		}
		lastErr = err
		slog.Warn("unparseable script response, retrying", "attempt", attempt+1, "error", err)
	}
	return "", fmt.Errorf("generate script: %w", lastErr)
}

func (c *GroqClient) Translate(ctx context.Context, script, language string) (string, error) {
	prompt, err := c.prompts.RenderTranslate(prompts.TranslateParams{
		Script:   script,
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	translated, err := c.complete(ctx, c.prompts.System.Translate, prompt, 0.7)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(translated), nil
}

func (c *GroqClient) SearchQueries(ctx context.Context, caps []captions.TimedCaption) ([]captions.TimedQueries, error) {
	prompt, err := c.prompts.RenderQueries(prompts.QueriesParams{
		Transcript: captionsTranscript(caps),
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < parseAttempts; attempt++ {
		raw, err := c.complete(ctx, c.prompts.System.Queries, prompt, 0.7)
		if err != nil {
			return nil, err
		}
		queries, err := parseTimedQueries(raw)
		if err == nil {
			return queries, nil
		}
		lastErr = err
		slog.Warn("unparseable query response, retrying", "attempt", attempt+1, "error", err)
	}
	return nil, fmt.Errorf("generate search queries: %w", lastErr)
}

func (c *GroqClient) TitleDescription(ctx context.Context, script string) (Metadata, error) {
	prompt, err := c.prompts.RenderMetadata(prompts.MetadataParams{Script: script})
	if err != nil {
		return Metadata{}, fmt.Errorf("render prompt: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < parseAttempts; attempt++ {
		raw, err := c.complete(ctx, c.prompts.System.Metadata, prompt, 0.7)
		if err != nil {
			return Metadata{}, err
		}
		meta, err := parseMetadata(raw)
		if err == nil {
			return meta, nil
		}
		lastErr = err
		slog.Warn("unparseable metadata response, retrying", "attempt", attempt+1, "error", err)
	}
	return Metadata{}, fmt.Errorf("generate metadata: %w", lastErr)
}

// complete issues one chat completion, backing off and retrying only on
// rate-limit responses. Any other failure surfaces immediately.
func (c *GroqClient) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	delay := baseRetryDelay
	var lastErr error

	for attempt := 0; attempt < maxRateLimitRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("rate limited, backing off", "delay", delay, "attempt", attempt, "max", maxRateLimitRetries)
			c.sleep(delay)
			delay *= 2
		}

		resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
			Model: c.model,
			Messages: []groq.ChatCompletionMessage{
				{Role: groq.RoleSystem, Content: systemPrompt},
				{Role: groq.RoleUser, Content: userPrompt},
			},
			Temperature: temperature,
		})
		if err != nil {
			if isRateLimit(err) {
				lastErr = err
				continue
			}
			return "", fmt.Errorf("chat completion: %w", err)
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return "", fmt.Errorf("empty completion response")
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("rate limited after %d attempts: %w", maxRateLimitRetries, lastErr)
}

// isRateLimit falls back to message matching because the client library does
// not expose the status code on all error paths.
func isRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource has been exhausted")
}
