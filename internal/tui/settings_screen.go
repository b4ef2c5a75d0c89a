package tui

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"changuito/internal/kv"
	"changuito/internal/provider"
	"changuito/internal/settings"
)

// settingsScreen embeds a huh form for the model picker, the auto-hide
// toggle and the API keys.
type settingsScreen struct {
	form  *huh.Form
	blobs *kv.Store

	model     string
	autoHide  bool
	geminiKey string
	openaiKey string
}

func newSettingsScreen(blobs *kv.Store, prefs settings.Settings) *settingsScreen {
	s := &settingsScreen{
		blobs:     blobs,
		model:     prefs.Model,
		autoHide:  prefs.AutoHideWishlistOnAdd,
		geminiKey: prefs.GeminiAPIKey,
		openaiKey: prefs.OpenAIAPIKey,
	}

	options := make([]huh.Option[string], 0, len(provider.ChatModels()))
	for _, m := range provider.ChatModels() {
		options = append(options, huh.NewOption(m.Label, m.ID))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model").
				Description("Used for extraction, reconciliation and chat").
				Options(options...).
				Value(&s.model),
			huh.NewConfirm().
				Title("Auto-hide wishlist items").
				Description("Hide wishlist entries covered by new shopping items").
				Value(&s.autoHide),
			huh.NewInput().
				Title("Gemini API key").
				EchoMode(huh.EchoModePassword).
				Value(&s.geminiKey),
			huh.NewInput().
				Title("OpenAI API key").
				EchoMode(huh.EchoModePassword).
				Value(&s.openaiKey),
		),
	).WithTheme(FormTheme())

	return s
}

func (s *settingsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update drives the embedded form. It returns done=true once the form
// is completed or aborted; completed values are persisted.
func (s *settingsScreen) Update(msg tea.Msg) (done bool, updated settings.Settings, cmd tea.Cmd) {
	model, cmd := s.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		return true, s.save(), cmd
	case huh.StateAborted:
		return true, settings.Settings{}, cmd
	}
	return false, settings.Settings{}, cmd
}

// save persists every field under its own key so a later failure can't
// lose the rest.
func (s *settingsScreen) save() settings.Settings {
	if err := settings.SaveModel(s.blobs, s.model); err != nil {
		log.Printf("settings: save model: %v", err)
	}
	if err := settings.SaveAutoHide(s.blobs, s.autoHide); err != nil {
		log.Printf("settings: save auto-hide: %v", err)
	}
	if err := saveKey(s.blobs, s.geminiKey, settings.SaveGeminiKey, settings.ClearGeminiKey); err != nil {
		log.Printf("settings: save gemini key: %v", err)
	}
	if err := saveKey(s.blobs, s.openaiKey, settings.SaveOpenAIKey, settings.ClearOpenAIKey); err != nil {
		log.Printf("settings: save openai key: %v", err)
	}

	prefs, err := settings.Load(s.blobs)
	if err != nil {
		log.Printf("settings: reload: %v", err)
	}
	return prefs
}

func saveKey(blobs *kv.Store, value string, save func(*kv.Store, string) error, clear func(*kv.Store) error) error {
	if value == "" {
		return clear(blobs)
	}
	return save(blobs, value)
}

func (s *settingsScreen) View() string {
	return s.form.View()
}

// FormTheme is the huh theme shared by every form in the app.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
