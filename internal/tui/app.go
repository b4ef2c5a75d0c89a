// Package tui is the interactive terminal frontend: the shopping list,
// the wishlist, and the chat screen, with voice capture wired in.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"changuito/internal/chat"
	"changuito/internal/config"
	"changuito/internal/extract"
	"changuito/internal/kv"
	"changuito/internal/llm"
	"changuito/internal/notify"
	"changuito/internal/recording"
	"changuito/internal/settings"
	"changuito/internal/store"
)

type screenID int

const (
	screenShopping screenID = iota
	screenWishlist
	screenChat
)

var screenTitles = map[screenID]string{
	screenShopping: "Shopping List",
	screenWishlist: "Wishlist",
	screenChat:     "Chat",
}

// App is the root bubbletea model.
type App struct {
	cfg      *config.Config
	cfgFn    func() *config.Config
	blobs    *kv.Store
	prefs    settings.Settings
	notifier notify.Notifier

	shopping *listScreen
	wishlist *listScreen
	chat     *chatScreen
	settings *settingsScreen

	recorder   *recording.Recorder
	session    *recording.Session
	recordMode extract.Mode

	screens []screenID
	active  int

	width, height int
	status        string
	statusErr     bool
}

// New assembles the app. The chat generator is built lazily so a
// missing API key surfaces as a chat error instead of blocking startup.
func New(cfg *config.Config, blobs *kv.Store, shopping, wishlist *store.Store, prefs settings.Settings, notifier notify.Notifier) *App {
	a := &App{
		cfg:      cfg,
		blobs:    blobs,
		prefs:    prefs,
		notifier: notifier,
		shopping: newListScreen(kindShopping, shopping),
		wishlist: newListScreen(kindWishlist, wishlist),
		recorder: recording.NewRecorder(recording.ConfigFrom(cfg.Recording)),
		screens:  []screenID{screenShopping, screenWishlist},
	}
	if cfg.Chat.Enabled {
		a.screens = append(a.screens, screenChat)
		a.chat = newChatScreen(chat.NewSession(&deferredGenerator{app: a}))
	}
	return a
}

// deferredGenerator builds the real generator on each call, picking up
// key and model changes made in the settings screen.
type deferredGenerator struct {
	app *App
}

func (d *deferredGenerator) generator(ctx context.Context) (llm.Generator, error) {
	return llm.NewGenerator(ctx, d.app.llmConfig())
}

func (d *deferredGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	gen, err := d.generator(ctx)
	if err != nil {
		return "", err
	}
	return gen.GenerateText(ctx, prompt)
}

func (d *deferredGenerator) Chat(ctx context.Context, system string, messages []llm.Message) (string, error) {
	gen, err := d.generator(ctx)
	if err != nil {
		return "", err
	}
	return gen.Chat(ctx, system, messages)
}

// currentCfg picks up live config reloads when a manager backs the app.
func (a *App) currentCfg() *config.Config {
	if a.cfgFn != nil {
		return a.cfgFn()
	}
	return a.cfg
}

func (a *App) llmConfig() llm.Config {
	cfg := a.currentCfg()
	return llm.Config{
		Provider: cfg.Backend.Provider,
		Model:    a.prefs.Model,
		APIKey:   a.prefs.APIKey(cfg.Backend.Provider),
	}
}

func (a *App) extractConfig() extract.Config {
	cfg := a.currentCfg()
	return extract.Config{
		Provider: cfg.Backend.Provider,
		Model:    a.prefs.Model,
		APIKey:   a.prefs.APIKey(cfg.Backend.Provider),
		Language: cfg.Backend.Language,
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) currentList() *listScreen {
	switch a.screens[a.active] {
	case screenShopping:
		return a.shopping
	case screenWishlist:
		return a.wishlist
	}
	return nil
}

func (a *App) blocksGlobalKeys() bool {
	if a.settings != nil {
		return true
	}
	if l := a.currentList(); l != nil {
		return l.blocksGlobalKeys()
	}
	return a.chat != nil && a.screens[a.active] == screenChat
}

// switchScreen moves the active tab by delta, clamping at the ends.
func (a *App) switchScreen(delta int) {
	next := a.active + delta
	if next < 0 {
		next = 0
	}
	if next > len(a.screens)-1 {
		next = len(a.screens) - 1
	}
	a.active = next
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.chat != nil {
			a.chat.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if a.settings != nil {
			return a.updateSettings(msg)
		}
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "shift+left":
			a.switchScreen(-1)
			return a, nil
		case "shift+right":
			a.switchScreen(1)
			return a, nil
		case "left":
			if !a.blocksGlobalKeys() {
				a.switchScreen(-1)
				return a, nil
			}
		case "right":
			if !a.blocksGlobalKeys() {
				a.switchScreen(1)
				return a, nil
			}
		case "q":
			if !a.blocksGlobalKeys() {
				return a, tea.Quit
			}
		case "r":
			// Stop takes priority over the screen shortcut while a
			// session is live.
			if a.session != nil && !a.blocksGlobalKeys() {
				return a, a.stopRecording()
			}
		}

	case recordRequestMsg:
		return a, a.startRecording(msg.mode)

	case recordingStartedMsg:
		if msg.err != nil {
			a.session = nil
			a.setError(recordingErrorText(msg.err))
			return a, nil
		}
		a.session = msg.session
		a.setStatus("Recording... press r to stop")
		a.notifier.RecordingStarted()
		return a, nil

	case extractDoneMsg:
		return a.finishExtraction(msg)

	case reconcileDoneMsg:
		// Reconciliation is a silent convenience: failures are logged,
		// never shown, and the wishlist stays as it was.
		if msg.err != nil {
			log.Printf("tui: wishlist sync failed: %v", msg.err)
		}
		return a, nil

	case settingsRequestMsg:
		a.settings = newSettingsScreen(a.blobs, a.prefs)
		return a, a.settings.Init()

	case chatReplyMsg:
		if a.chat != nil {
			var cmd tea.Cmd
			a.chat, cmd = a.chat.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.settings != nil {
		return a.updateSettings(msg)
	}
	return a.updateActiveScreen(msg)
}

func (a *App) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, updated, cmd := a.settings.Update(msg)
	if done {
		a.settings = nil
		if updated.Model != "" {
			a.prefs = updated
			a.setStatus("Settings saved")
		}
	}
	return a, cmd
}

func (a *App) updateActiveScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screens[a.active] {
	case screenShopping:
		a.shopping, cmd = a.shopping.Update(msg)
	case screenWishlist:
		a.wishlist, cmd = a.wishlist.Update(msg)
	case screenChat:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

func (a *App) startRecording(mode extract.Mode) tea.Cmd {
	if a.session != nil {
		return a.stopRecording()
	}
	if a.prefs.APIKey(a.currentCfg().Backend.Provider) == "" {
		a.setError("No API key configured. Press 's' to open settings.")
		return nil
	}
	a.recordMode = mode
	a.setStatus("Starting recording...")
	return startRecordingCmd(a.recorder)
}

func (a *App) stopRecording() tea.Cmd {
	session := a.session
	a.session = nil
	a.setStatus("Extracting items...")
	a.notifier.RecordingEnded()
	a.notifier.Extracting()
	return stopAndExtractCmd(session, a.extractConfig(), a.recordMode)
}

func (a *App) finishExtraction(msg extractDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.setError(fmt.Sprintf("extraction failed: %v", msg.err))
		a.notifier.Error("Extraction failed")
		return a, nil
	}
	if len(msg.items) == 0 {
		a.setStatus("No items heard")
		return a, nil
	}

	target := a.shopping
	listName := "shopping list"
	if msg.mode == extract.ModeWishlist {
		target = a.wishlist
		listName = "wishlist"
	}
	added, err := target.store.AddBatch(msg.items)
	if err != nil {
		a.setError(fmt.Sprintf("could not add items: %v", err))
		return a, nil
	}
	target.cursor = 0
	a.setStatus(fmt.Sprintf("Added %d item(s)", len(added)))
	a.notifier.ItemsAdded(len(added), listName)

	if msg.mode == extract.ModeShopping && a.prefs.AutoHideWishlistOnAdd {
		return a, reconcileCmd(a.llmConfig(), a.wishlist.store, added)
	}
	return a, nil
}

func recordingErrorText(err error) string {
	switch {
	case errors.Is(err, recording.ErrPermission):
		return "Microphone unavailable. Is PipeWire running?"
	case errors.Is(err, recording.ErrBusy):
		return "Already recording."
	default:
		return fmt.Sprintf("recording failed: %v", err)
	}
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(s string) {
	a.status = s
	a.statusErr = true
}

func (a *App) View() string {
	if a.settings != nil {
		return a.settings.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")

	switch a.screens[a.active] {
	case screenShopping:
		b.WriteString(a.shopping.View())
	case screenWishlist:
		b.WriteString(a.wishlist.View())
	case screenChat:
		b.WriteString(a.chat.View())
	}

	if a.status != "" {
		b.WriteString("\n")
		if a.statusErr {
			b.WriteString(StyleError.Render(a.status))
		} else {
			b.WriteString(StyleMuted.Render(a.status))
		}
	}

	if a.screens[a.active] != screenChat {
		b.WriteString("\n")
		b.WriteString(StyleSubtle.Render("a add • e edit • d delete • space hide • r dictate • s settings • ←/→ switch • q quit"))
	}
	return b.String()
}

func (a *App) renderTabs() string {
	parts := make([]string, 0, len(a.screens))
	for i, id := range a.screens {
		title := screenTitles[id]
		if i == a.active {
			parts = append(parts, StyleTabActive.Render(title))
		} else {
			parts = append(parts, StyleTabInactive.Render(title))
		}
	}
	return strings.Join(parts, StyleSubtle.Render("  |  "))
}

// Run starts the TUI and blocks until it exits. Pending writes are
// flushed before returning.
func Run(mgr *config.Manager, blobs *kv.Store, shopping, wishlist *store.Store, prefs settings.Settings, notifier notify.Notifier) error {
	app := New(mgr.GetConfig(), blobs, shopping, wishlist, prefs, notifier)
	app.cfgFn = mgr.GetConfig
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	shopping.Flush()
	wishlist.Flush()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
