// Package reconcile hides wishlist entries that were just bought. After
// items land on the shopping list, a model matches them against the
// wishlist and flags the covered entries.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"changuito/internal/extract"
	"changuito/internal/item"
	"changuito/internal/llm"
	"changuito/internal/store"
)

const promptHeader = `You maintain a wishlist of products the user wants to buy.
The user just added some items to their shopping list. For every wishlist
entry that is now covered by a purchased item, mark it as no longer visible.
Match loosely: singular/plural, brand vs generic name, minor wording
differences all count as the same product.

Respond ONLY with a JSON array, no markdown, no explanations. Include one
element per wishlist entry, with this shape:
{"id": string, "visible": boolean}

Keep "visible" true for entries that were NOT purchased.`

// Reconciler drives the match and applies its outcome to the wishlist.
type Reconciler struct {
	gen      llm.Generator
	wishlist *store.Store
}

// New creates a reconciler over the given wishlist store.
func New(gen llm.Generator, wishlist *store.Store) *Reconciler {
	return &Reconciler{gen: gen, wishlist: wishlist}
}

// wireEntry is the wishlist shape sent to and received from the model.
type wireEntry struct {
	ID      string `json:"id"`
	Product string `json:"product"`
	Visible bool   `json:"visible"`
}

// Run matches the added shopping items against the wishlist and hides
// covered entries. Failures leave the wishlist untouched; this is a
// convenience, not a correctness path.
func (r *Reconciler) Run(ctx context.Context, added []item.Item) error {
	current := r.wishlist.Items()
	if len(current) == 0 || len(added) == 0 {
		return nil
	}

	prompt, err := buildPrompt(current, added)
	if err != nil {
		return fmt.Errorf("reconcile: build prompt: %w", err)
	}

	resp, err := r.gen.GenerateText(ctx, prompt)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	decisions, err := parseDecisions(resp)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	merged, hidden := Merge(current, decisions)
	if hidden == 0 {
		return nil
	}
	r.wishlist.Replace(merged)
	log.Printf("reconcile: hid %d wishlist entries", hidden)
	return nil
}

func buildPrompt(wishlist, added []item.Item) (string, error) {
	entries := make([]wireEntry, 0, len(wishlist))
	for _, it := range wishlist {
		entries = append(entries, wireEntry{ID: it.ID, Product: it.Product, Visible: it.Visible})
	}
	wishlistJSON, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}

	products := make([]string, 0, len(added))
	for _, it := range added {
		products = append(products, it.Product)
	}
	addedJSON, err := json.Marshal(products)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nWishlist:\n")
	b.Write(wishlistJSON)
	b.WriteString("\n\nPurchased items:\n")
	b.Write(addedJSON)
	return b.String(), nil
}

// parseDecisions extracts the per-id visibility verdicts. Only the id
// and visible fields are trusted; anything else the model sends back
// is ignored.
func parseDecisions(resp string) (map[string]bool, error) {
	var entries []wireEntry
	if err := json.Unmarshal([]byte(extract.CleanResponse(resp)), &entries); err != nil {
		return nil, fmt.Errorf("unparseable model response: %w", err)
	}
	decisions := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		decisions[e.ID] = e.Visible
	}
	return decisions, nil
}

// Merge applies visibility decisions to a wishlist snapshot.
// Reconciliation only ever hides entries, so a decision to re-show a
// hidden one is ignored, as are decisions for unknown ids and entries
// without a decision. Returns the merged list and how many entries
// were hidden.
func Merge(wishlist []item.Item, decisions map[string]bool) ([]item.Item, int) {
	merged := make([]item.Item, len(wishlist))
	hidden := 0
	for i, it := range wishlist {
		if visible, ok := decisions[it.ID]; ok && it.Visible && !visible {
			it.Visible = false
			hidden++
		}
		merged[i] = it
	}
	return merged, hidden
}
