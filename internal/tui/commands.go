package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"changuito/internal/chat"
	"changuito/internal/extract"
	"changuito/internal/item"
	"changuito/internal/llm"
	"changuito/internal/recording"
	"changuito/internal/reconcile"
	"changuito/internal/store"
)

// Messages produced by the async commands below.

type recordingStartedMsg struct {
	session *recording.Session
	err     error
}

type extractDoneMsg struct {
	mode  extract.Mode
	items []item.Item
	err   error
}

type reconcileDoneMsg struct {
	err error
}

type chatReplyMsg struct {
	reply string
	err   error
}

// startRecordingCmd spins up a capture session. The session outlives
// the command, so it runs on a background context rather than one tied
// to a single Update cycle.
func startRecordingCmd(recorder *recording.Recorder) tea.Cmd {
	return func() tea.Msg {
		session, err := recorder.Start(context.Background())
		return recordingStartedMsg{session: session, err: err}
	}
}

// stopAndExtractCmd finishes the capture and runs the clip through the
// extraction backend.
func stopAndExtractCmd(session *recording.Session, cfg extract.Config, mode extract.Mode) tea.Cmd {
	return func() tea.Msg {
		clip, err := session.Stop()
		if err != nil {
			return extractDoneMsg{mode: mode, err: err}
		}

		ctx := context.Background()
		client, err := extract.NewClient(ctx, cfg)
		if err != nil {
			return extractDoneMsg{mode: mode, err: err}
		}

		candidates, err := client.ExtractItems(ctx, &clip, mode)
		if err != nil {
			return extractDoneMsg{mode: mode, err: err}
		}

		var items []item.Item
		if mode == extract.ModeWishlist {
			items = extract.ToWishlistItems(candidates)
		} else {
			items = extract.ToShoppingItems(candidates)
		}
		return extractDoneMsg{mode: mode, items: items}
	}
}

// reconcileCmd matches freshly added shopping items against the
// wishlist and hides the covered entries.
func reconcileCmd(cfg llm.Config, wishlist *store.Store, added []item.Item) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		gen, err := llm.NewGenerator(ctx, cfg)
		if err != nil {
			return reconcileDoneMsg{err: err}
		}
		return reconcileDoneMsg{err: reconcile.New(gen, wishlist).Run(ctx, added)}
	}
}

// chatSendCmd sends one user message and waits for the reply.
func chatSendCmd(session *chat.Session, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := session.Send(context.Background(), text)
		return chatReplyMsg{reply: reply, err: err}
	}
}
