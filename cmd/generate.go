package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"storyreel/internal/app"
	"storyreel/internal/engine"
	"storyreel/pkg/config"
)

var (
	genTopic      string
	genScriptFile string
	genLandscape  bool
	genQuality    string
	genLanguage   string
	genPosition   string
	genMusic      string
	genWatermark  string
	genUpload     bool
)

var stepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a video from a topic or script",
	Long: `Generate a video from a topic prompt or an existing script file.
The run directory keeps every intermediate artifact, so an interrupted run
can be continued with "storyreel resume".`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genTopic, "topic", "t", "", "Topic to write a script about")
	generateCmd.Flags().StringVarP(&genScriptFile, "script-file", "s", "", "Path to a ready narration script")
	generateCmd.Flags().BoolVar(&genLandscape, "landscape", false, "Produce a 16:9 landscape video instead of a vertical short")
	generateCmd.Flags().StringVarP(&genQuality, "quality", "q", "", "Output quality: SD, HD or 4k")
	generateCmd.Flags().StringVarP(&genLanguage, "language", "l", "", "Narration language")
	generateCmd.Flags().StringVar(&genPosition, "position", "", "Caption position: Top, Middle or Bottom")
	generateCmd.Flags().StringVarP(&genMusic, "music", "m", "", "Background music track name from the asset library")
	generateCmd.Flags().StringVarP(&genWatermark, "watermark", "w", "", "Watermark image name from the asset library")
	generateCmd.Flags().BoolVarP(&genUpload, "upload", "u", false, "Upload to YouTube after generation")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genTopic == "" && genScriptFile == "" {
		return errors.New("please provide --topic or --script-file")
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

	req := app.GenerateRequest{
		Topic:        genTopic,
		Vertical:     !genLandscape,
		Quality:      genQuality,
		Language:     genLanguage,
		TextPosition: genPosition,
		Music:        genMusic,
		Watermark:    genWatermark,
		Progress:     printProgress,
	}

	if genScriptFile != "" {
		script, err := os.ReadFile(genScriptFile)
		if err != nil {
			return fmt.Errorf("read script file: %w", err)
		}
		req.Script = string(script)
		req.Topic = ""
	}

	result, err := service.Generate(ctx, req)
	if err != nil {
		return err
	}

	slog.Info("Video generated",
		"title", result.Title,
		"path", result.VideoPath,
		"thumbnail", result.Thumbnail,
		"run_dir", result.RunDir,
	)

	if genUpload {
		slog.Info("Uploading to YouTube...")
		resp, err := service.Upload(ctx, filepath.Base(result.RunDir))
		if err != nil {
			return err
		}
		slog.Info("Upload complete", "url", resp.URL)
	}
	return nil
}

func printProgress(step int, description string) {
	fmt.Println(stepStyle.Render(fmt.Sprintf("[%d/%d] %s", step, engine.StepCount, description)))
}
