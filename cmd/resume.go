package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"storyreel/internal/app"
	"storyreel/pkg/config"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <run-dir>",
	Short: "Continue an interrupted run",
	Long: `Resume picks up a run from its directory. Completed steps are
detected from state.json and skipped; the pipeline continues from the first
unfinished step.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	if args[0] == "" {
		return errors.New("run directory is required")
	}

	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := service.Resume(ctx, args[0], printProgress)
	if err != nil {
		return err
	}

	slog.Info("Video generated",
		"title", result.Title,
		"path", result.VideoPath,
		"run_dir", result.RunDir,
	)
	return nil
}
