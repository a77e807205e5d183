package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Long:  `Configure API keys and create the working directories for storyreel.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Storyreel Setup"))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Creating directories", createDirectories},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	fmt.Println(successStyle.Render("\n✓ Setup complete. Try: storyreel generate --topic \"ocean facts\""))
	return nil
}

func createDirectories() error {
	return runWithSpinner("Creating directories", func() error {
		dirs := []string{"assets/music", "videos", ".cache", "output"}
		for _, dir := range dirs {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		return nil
	})
}

func configureEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureRequiredKeys(env); err != nil {
		return err
	}
	if err := configureFootageKeys(env); err != nil {
		return err
	}
	if err := configureYouTube(env); err != nil {
		return err
	}

	return writeEnvFile(env)
}

func configureRequiredKeys(env map[string]string) error {
	var groqKey, elevenKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GROQ API Key").
				Description("https://console.groq.com/keys").
				Value(&groqKey).
				Validate(required("GROQ API Key")),
			huh.NewInput().
				Title("ElevenLabs API Key").
				Description("Optional, leave empty to skip narration synthesis").
				EchoMode(huh.EchoModePassword).
				Value(&elevenKey),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	env["GROQ_API_KEY"] = strings.TrimSpace(groqKey)
	if key := strings.TrimSpace(elevenKey); key != "" {
		env["ELEVENLABS_API_KEY"] = key
	}
	return nil
}

func configureFootageKeys(env map[string]string) error {
	fmt.Println(infoStyle.Render(`
Stock footage providers (at least one recommended):
  Pexels   https://www.pexels.com/api/
  Pixabay  https://pixabay.com/api/docs/
  Unsplash https://unsplash.com/developers`))

	var pexelsKey, pixabayKey, unsplashKey string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pexels API Key").Value(&pexelsKey),
			huh.NewInput().Title("Pixabay API Key").Value(&pixabayKey),
			huh.NewInput().Title("Unsplash Access Key").Value(&unsplashKey),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if key := strings.TrimSpace(pexelsKey); key != "" {
		env["PEXELS_API_KEY"] = key
	}
	if key := strings.TrimSpace(pixabayKey); key != "" {
		env["PIXABAY_API_KEY"] = key
	}
	if key := strings.TrimSpace(unsplashKey); key != "" {
		env["UNSPLASH_ACCESS_KEY"] = key
	}
	return nil
}

func configureYouTube(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup YouTube upload?").
		Description("Requires OAuth credentials from Google Cloud Console").
		Value(&setup).
		Run(); err != nil || !setup {
		return err
	}

	fmt.Println(infoStyle.Render(`
To create OAuth credentials:
1. Go to https://console.cloud.google.com/apis/credentials
2. Click "Create Credentials" → "OAuth client ID"
3. Choose "Desktop app" as application type
4. Copy the Client ID and Client Secret
`))

	var clientID, clientSecret string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("YouTube Client ID").
				Value(&clientID),
			huh.NewInput().
				Title("YouTube Client Secret").
				EchoMode(huh.EchoModePassword).
				Value(&clientSecret),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if id := strings.TrimSpace(clientID); id != "" {
		env["YOUTUBE_CLIENT_ID"] = id
	}
	if secret := strings.TrimSpace(clientSecret); secret != "" {
		env["YOUTUBE_CLIENT_SECRET"] = secret
	}
	return nil
}

func writeEnvFile(env map[string]string) error {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("%s=%s\n", key, env[key]))
	}

	if err := os.WriteFile(".env", []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("write .env: %w", err)
	}

	fmt.Println(successStyle.Render("✓ Wrote .env"))
	return nil
}

func runWithSpinner(title string, fn func() error) error {
	var runErr error
	err := spinner.New().
		Title(title).
		Action(func() { runErr = fn() }).
		Run()
	if err != nil {
		return err
	}
	return runErr
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
