package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"storyreel/internal/app"
	"storyreel/pkg/config"
)

var (
	listTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	listIDStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	listDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated videos from the catalog",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}

	records, err := service.List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println(listDimStyle.Render("No videos in the catalog yet."))
		return nil
	}

	for _, record := range records {
		title := record.Data.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Println(listTitleStyle.Render(title))
		fmt.Println(listIDStyle.Render("  id: " + record.ID))
		fmt.Println(listDimStyle.Render("  video: " + record.Data.GeneratedVideo))
		fmt.Println(listDimStyle.Render("  orientation: " + record.Data.Orientation))
		fmt.Println()
	}
	return nil
}
