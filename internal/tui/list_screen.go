package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"changuito/internal/extract"
	"changuito/internal/item"
	"changuito/internal/store"
)

type listKind int

const (
	kindShopping listKind = iota
	kindWishlist
)

// Requests bubbled up to the app, which owns recording and settings.

type recordRequestMsg struct{ mode extract.Mode }

type settingsRequestMsg struct{}

// listScreen renders one item list and handles its edits. The same
// screen backs the shopping list and the wishlist.
type listScreen struct {
	kind   listKind
	store  *store.Store
	cursor int
	form   *itemForm
	status string
}

func newListScreen(kind listKind, s *store.Store) *listScreen {
	return &listScreen{kind: kind, store: s}
}

func (l *listScreen) mode() extract.Mode {
	if l.kind == kindWishlist {
		return extract.ModeWishlist
	}
	return extract.ModeShopping
}

// blocksGlobalKeys reports whether the screen is capturing text input,
// in which case the app must not treat keys as shortcuts.
func (l *listScreen) blocksGlobalKeys() bool {
	return l.form != nil
}

func (l *listScreen) clampCursor() {
	if n := l.store.Len(); l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *listScreen) selected() (item.Item, bool) {
	items := l.store.Items()
	if l.cursor < 0 || l.cursor >= len(items) {
		return item.Item{}, false
	}
	return items[l.cursor], true
}

func (l *listScreen) Update(msg tea.Msg) (*listScreen, tea.Cmd) {
	if l.form != nil {
		result, done, cmd := l.form.Update(msg)
		if result != nil {
			l.apply(result)
		}
		if done {
			l.form = nil
		}
		return l, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	l.status = ""
	switch key.String() {
	case "up", "k":
		l.cursor--
		l.clampCursor()
	case "down", "j":
		l.cursor++
		l.clampCursor()
	case "K", "shift+up":
		l.moveSelected(-1)
	case "J", "shift+down":
		l.moveSelected(1)
	case "a":
		l.form = newItemForm(l.kind, nil)
	case "e":
		if it, ok := l.selected(); ok {
			l.form = newItemForm(l.kind, &it)
		}
	case "d":
		if it, ok := l.selected(); ok {
			if err := l.store.Remove(it.ID); err != nil {
				l.status = err.Error()
			}
			l.clampCursor()
		}
	case "D":
		l.store.Clear()
		l.cursor = 0
	case " ":
		if it, ok := l.selected(); ok {
			if err := l.store.ToggleVisible(it.ID); err != nil {
				l.status = err.Error()
			}
		}
	case "u":
		if l.kind != kindShopping {
			break
		}
		if it, ok := l.selected(); ok {
			if err := l.store.ToggleUncertain(it.ID); err != nil {
				l.status = err.Error()
			}
		}
	case "r":
		return l, func() tea.Msg { return recordRequestMsg{mode: l.mode()} }
	case "s":
		return l, func() tea.Msg { return settingsRequestMsg{} }
	}
	return l, nil
}

// apply commits a form submission to the store.
func (l *listScreen) apply(r *formResult) {
	var err error
	if r.editID != "" {
		err = l.store.Update(r.editID, r.product, r.quantity, r.price)
	} else if l.kind == kindShopping {
		_, err = l.store.Add(item.NewShopping(r.product, r.quantity, r.price))
	} else {
		_, err = l.store.Add(item.NewWishlist(r.product))
	}
	if err != nil {
		l.status = err.Error()
		return
	}
	if r.editID == "" {
		l.cursor = 0
	}
}

// moveSelected swaps the selected row with its neighbor.
func (l *listScreen) moveSelected(delta int) {
	items := l.store.Items()
	target := l.cursor + delta
	if l.cursor < 0 || l.cursor >= len(items) || target < 0 || target >= len(items) {
		return
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	ids[l.cursor], ids[target] = ids[target], ids[l.cursor]
	if err := l.store.Reorder(ids); err != nil {
		l.status = err.Error()
		return
	}
	l.cursor = target
}

func (l *listScreen) View() string {
	if l.form != nil {
		return l.form.View()
	}

	var b strings.Builder
	items := l.store.Items()
	if len(items) == 0 {
		b.WriteString(StyleSubtle.Render("Empty. Press 'a' to add an item or 'r' to dictate."))
		b.WriteString("\n")
	}

	for i, it := range items {
		marker := "  "
		if i == l.cursor {
			marker = StyleSelected.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(l.renderRow(it, i == l.cursor))
		b.WriteString("\n")
	}

	if l.kind == kindShopping {
		b.WriteString("\n")
		b.WriteString(StyleTotal.Render(fmt.Sprintf("Total: $%.2f", l.store.Total())))
		b.WriteString("\n")
	}

	if l.status != "" {
		b.WriteString(StyleError.Render(l.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (l *listScreen) renderRow(it item.Item, selected bool) string {
	line := it.Product
	if l.kind == kindShopping {
		line = fmt.Sprintf("%s  x%s  $%s", it.Product, it.Quantity, it.Price)
		if it.PriceUncertain {
			line += " " + StyleWarning.Render("(?)")
		}
	}
	if !it.Visible {
		return StyleHidden.Render(line)
	}
	if selected {
		return StyleSelected.Render(line)
	}
	return line
}
