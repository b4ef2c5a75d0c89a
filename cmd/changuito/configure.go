package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"changuito/internal/config"
	"changuito/internal/provider"
	"changuito/internal/settings"
	"changuito/internal/tui"
)

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration for changuito.
This will guide you through setting up:
- The extraction backend (Gemini or OpenAI) and its API key
- The language spoken in voice notes
- Notification and chat preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	cfg := e.cfg

	termenv.NewOutput(os.Stdout).ClearScreen()
	fmt.Println(tui.Logo())
	fmt.Println()

	modelOptions := make([]huh.Option[string], 0, len(provider.ChatModels()))
	for _, m := range provider.ChatModels() {
		modelOptions = append(modelOptions, huh.NewOption(m.Label, m.ID))
	}

	model := e.prefs.Model
	autoHide := e.prefs.AutoHideWishlistOnAdd
	apiKey := e.prefs.APIKey(cfg.Backend.Provider)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Backend").
				Description("Provider used for extraction, reconciliation and chat").
				Options(
					huh.NewOption("Gemini", provider.Gemini),
					huh.NewOption("OpenAI", provider.OpenAI),
				).
				Value(&cfg.Backend.Provider),
			huh.NewInput().
				Title("Language").
				Description("Language spoken in voice notes (ISO 639-1, e.g. es)").
				Value(&cfg.Backend.Language),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model").
				Options(modelOptions...).
				Value(&model),
			huh.NewInput().
				Title("API key").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewConfirm().
				Title("Auto-hide wishlist items").
				Description("Hide wishlist entries covered by new shopping items").
				Value(&autoHide),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications").
				Value(&cfg.Notifications.Enabled),
			huh.NewSelect[string]().
				Title("Notification type").
				Options(
					huh.NewOption("Desktop (notify-send)", "desktop"),
					huh.NewOption("Log", "log"),
					huh.NewOption("None", "none"),
				).
				Value(&cfg.Notifications.Type),
			huh.NewConfirm().
				Title("Enable chat screen").
				Value(&cfg.Chat.Enabled),
		),
	).WithTheme(tui.FormTheme())

	if err := form.Run(); err != nil {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := settings.SaveModel(e.blobs, model); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	if err := settings.SaveAutoHide(e.blobs, autoHide); err != nil {
		return fmt.Errorf("failed to save auto-hide: %w", err)
	}
	if apiKey != "" {
		saveFn := settings.SaveGeminiKey
		if cfg.Backend.Provider == provider.OpenAI {
			saveFn = settings.SaveOpenAIKey
		}
		if err := saveFn(e.blobs, apiKey); err != nil {
			return fmt.Errorf("failed to save API key: %w", err)
		}
	}

	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
	return nil
}
