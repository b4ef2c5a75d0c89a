package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"changuito/internal/item"
	"changuito/internal/kv"
	"changuito/internal/llm"
	"changuito/internal/store"
)

type fakeGenerator struct {
	prompt   string
	response string
	err      error
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func (f *fakeGenerator) Chat(ctx context.Context, system string, messages []llm.Message) (string, error) {
	return "", errors.New("not used")
}

func newWishlist(t *testing.T, products ...string) *store.Store {
	t.Helper()
	t.Setenv("CHANGUITO_DATA_DIR", t.TempDir())
	blobs, err := kv.OpenDefault()
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	s := store.New(blobs, store.WishlistKey)
	for _, p := range products {
		if _, err := s.Add(item.NewWishlist(p)); err != nil {
			t.Fatalf("add %q: %v", p, err)
		}
	}
	return s
}

func TestMerge_HidesDecidedEntries(t *testing.T) {
	wishlist := []item.Item{
		{ID: "a", Product: "Queso", Visible: true},
		{ID: "b", Product: "Yerba", Visible: true},
	}
	merged, hidden := Merge(wishlist, map[string]bool{"a": false, "b": true})
	if hidden != 1 {
		t.Errorf("hidden = %d, want 1", hidden)
	}
	if merged[0].Visible || !merged[1].Visible {
		t.Errorf("merged = %+v", merged)
	}
}

func TestMerge_IgnoresUnknownIDs(t *testing.T) {
	wishlist := []item.Item{{ID: "a", Product: "Queso", Visible: true}}
	merged, hidden := Merge(wishlist, map[string]bool{"zzz": false})
	if hidden != 0 || !merged[0].Visible {
		t.Errorf("unknown id should not change anything: %+v hidden=%d", merged, hidden)
	}
}

func TestMerge_NeverUnhides(t *testing.T) {
	wishlist := []item.Item{
		{ID: "a", Product: "Queso", Visible: false},
		{ID: "b", Product: "Yerba", Visible: true},
	}
	merged, hidden := Merge(wishlist, map[string]bool{"a": true, "b": false})
	if hidden != 1 {
		t.Errorf("hidden = %d, want 1", hidden)
	}
	if merged[0].Visible {
		t.Errorf("a re-show decision must not unhide an entry")
	}
	if merged[1].Visible {
		t.Errorf("hide decision should still apply alongside it")
	}
}

func TestMerge_MissingDecisionKeepsState(t *testing.T) {
	wishlist := []item.Item{
		{ID: "a", Product: "Queso", Visible: true},
		{ID: "b", Product: "Yerba", Visible: false},
	}
	merged, _ := Merge(wishlist, map[string]bool{})
	if !merged[0].Visible || merged[1].Visible {
		t.Errorf("states changed without decisions: %+v", merged)
	}
}

func TestRun_HidesMatchedEntry(t *testing.T) {
	wl := newWishlist(t, "Queso")
	id := wl.Items()[0].ID

	gen := &fakeGenerator{response: `[{"id":"` + id + `","visible":false}]`}
	r := New(gen, wl)

	err := r.Run(context.Background(), []item.Item{item.NewShopping("Queso cremoso", "", "")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if wl.Items()[0].Visible {
		t.Errorf("matched entry should be hidden")
	}
	if !strings.Contains(gen.prompt, "Queso cremoso") {
		t.Errorf("prompt should carry the purchased products")
	}
	if !strings.Contains(gen.prompt, id) {
		t.Errorf("prompt should carry wishlist ids")
	}
}

func TestRun_FencedResponse(t *testing.T) {
	wl := newWishlist(t, "Queso")
	id := wl.Items()[0].ID

	gen := &fakeGenerator{response: "```json\n[{\"id\":\"" + id + "\",\"visible\":false}]\n```"}
	if err := New(gen, wl).Run(context.Background(), []item.Item{item.NewShopping("Queso", "", "")}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if wl.Items()[0].Visible {
		t.Errorf("fenced response should still apply")
	}
}

func TestRun_GeneratorErrorLeavesWishlist(t *testing.T) {
	wl := newWishlist(t, "Queso")
	gen := &fakeGenerator{err: errors.New("boom")}

	err := New(gen, wl).Run(context.Background(), []item.Item{item.NewShopping("Queso", "", "")})
	if err == nil {
		t.Fatal("expected error")
	}
	if !wl.Items()[0].Visible {
		t.Errorf("wishlist must stay untouched on failure")
	}
}

func TestRun_MalformedResponseLeavesWishlist(t *testing.T) {
	wl := newWishlist(t, "Queso")
	gen := &fakeGenerator{response: "sure, I hid them!"}

	err := New(gen, wl).Run(context.Background(), []item.Item{item.NewShopping("Queso", "", "")})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !wl.Items()[0].Visible {
		t.Errorf("wishlist must stay untouched on parse failure")
	}
}

func TestRun_SkipsWhenNothingToDo(t *testing.T) {
	wl := newWishlist(t)
	gen := &fakeGenerator{}
	if err := New(gen, wl).Run(context.Background(), []item.Item{item.NewShopping("Pan", "", "")}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gen.prompt != "" {
		t.Errorf("empty wishlist should not call the model")
	}
}
