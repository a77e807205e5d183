package config

import (
	"context"
	"fmt"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// resolveSecrets fills API keys missing from the environment out of GCP
// Secret Manager. Disabled unless GCP_PROJECT is set; a missing individual
// secret is not an error, the key just stays empty and the builder disables
// that collaborator.
func resolveSecrets(ctx context.Context, cfg *Config) error {
	if cfg.GCPProject == "" {
		return nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	targets := []struct {
		name  string
		field *string
	}{
		{"groq-api-key", &cfg.GroqAPIKey},
		{"elevenlabs-api-key", &cfg.ElevenLabsAPIKey},
		{"pexels-api-key", &cfg.PexelsAPIKey},
		{"pixabay-api-key", &cfg.PixabayAPIKey},
		{"unsplash-access-key", &cfg.UnsplashAccessKey},
		{"youtube-client-id", &cfg.YouTubeClientID},
		{"youtube-client-secret", &cfg.YouTubeClientSecret},
	}

	for _, target := range targets {
		if *target.field != "" {
			continue
		}
		value, err := accessSecret(ctx, client, cfg.GCPProject, target.name)
		if err != nil {
			slog.Debug("secret not available", "secret", target.name, "error", err)
			continue
		}
		*target.field = value
	}

	return nil
}

func accessSecret(ctx context.Context, client *secretmanager.Client, project, name string) (string, error) {
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(resp.GetPayload().GetData()), nil
}
