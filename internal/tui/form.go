package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"changuito/internal/item"
)

// itemForm is the inline add/edit form. Wishlist entries only take a
// product name; shopping entries also take quantity and price.
type itemForm struct {
	inputs  []textinput.Model
	focus   int
	editID  string // empty when adding
	errText string
}

const (
	fieldProduct = iota
	fieldQuantity
	fieldPrice
)

func newItemForm(kind listKind, editing *item.Item) *itemForm {
	product := textinput.New()
	product.Placeholder = "Product"
	product.CharLimit = 80
	product.Focus()

	inputs := []textinput.Model{product}
	if kind == kindShopping {
		quantity := textinput.New()
		quantity.Placeholder = "Quantity (1)"
		quantity.CharLimit = 12

		price := textinput.New()
		price.Placeholder = "Price (0)"
		price.CharLimit = 12

		inputs = append(inputs, quantity, price)
	}

	f := &itemForm{inputs: inputs}
	if editing != nil {
		f.editID = editing.ID
		f.inputs[fieldProduct].SetValue(editing.Product)
		if kind == kindShopping {
			f.inputs[fieldQuantity].SetValue(editing.Quantity)
			f.inputs[fieldPrice].SetValue(editing.Price)
		}
	}
	return f
}

// formResult carries the submitted values back to the list screen.
type formResult struct {
	editID   string
	product  string
	quantity string
	price    string
}

// Update routes keys to the focused input. It returns a non-nil result
// on submit, and done=true when the form should close.
func (f *itemForm) Update(msg tea.Msg) (result *formResult, done bool, cmd tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return nil, true, nil
		case "enter":
			if f.focus < len(f.inputs)-1 {
				f.setFocus(f.focus + 1)
				return nil, false, nil
			}
			return f.submit()
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.inputs))
			return nil, false, nil
		case "shift+tab", "up":
			f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs))
			return nil, false, nil
		}
	}

	var c tea.Cmd
	f.inputs[f.focus], c = f.inputs[f.focus].Update(msg)
	return nil, false, c
}

func (f *itemForm) submit() (*formResult, bool, tea.Cmd) {
	product := strings.TrimSpace(f.inputs[fieldProduct].Value())
	if product == "" {
		f.errText = "product name is required"
		f.setFocus(fieldProduct)
		return nil, false, nil
	}

	r := &formResult{editID: f.editID, product: product}
	if len(f.inputs) > 1 {
		r.quantity = strings.TrimSpace(f.inputs[fieldQuantity].Value())
		r.price = strings.TrimSpace(f.inputs[fieldPrice].Value())
	}
	return r, true, nil
}

func (f *itemForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func (f *itemForm) View() string {
	var b strings.Builder
	title := "Add item"
	if f.editID != "" {
		title = "Edit item"
	}
	b.WriteString(StyleHeader.Render(title))
	b.WriteString("\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.errText != "" {
		b.WriteString(StyleError.Render(f.errText))
		b.WriteString("\n")
	}
	b.WriteString(StyleSubtle.Render("enter confirm • tab next field • esc cancel"))
	return StyleBox.Render(b.String())
}
