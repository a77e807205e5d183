package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"storyreel/internal/app"
	"storyreel/pkg/config"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <video-id>",
	Short: "Upload a catalogued video to YouTube",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}

	slog.Info("Uploading to YouTube...", "id", args[0])
	resp, err := service.Upload(ctx, args[0])
	if err != nil {
		return err
	}

	slog.Info("Upload complete", "url", resp.URL)
	return nil
}
