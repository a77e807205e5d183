package llm

import (
	"context"

	"storyreel/internal/captions"
)

// Client is the text-generation collaborator behind script writing,
// translation, visual query planning and publish metadata.
type Client interface {
	GenerateScript(ctx context.Context, description, language string) (string, error)
	Translate(ctx context.Context, script, language string) (string, error)
	SearchQueries(ctx context.Context, caps []captions.TimedCaption) ([]captions.TimedQueries, error)
	TitleDescription(ctx context.Context, script string) (Metadata, error)
}

// Metadata is the generated publishing copy for a finished video.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
