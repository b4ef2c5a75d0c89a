package store

import (
	"errors"
	"fmt"
	"testing"

	"changuito/internal/item"
	"changuito/internal/kv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	blobs, err := kv.Open(t.TempDir())
	if err != nil {
		t.Fatalf("kv.Open: %v", err)
	}
	return New(blobs, ShoppingKey)
}

func TestAdd_Prepends(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Add(item.NewShopping("Leche", "3", "20"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := s.Add(item.NewShopping("Pan", "1", "15"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("newest item should be first, got order %s, %s", items[0].Product, items[1].Product)
	}
}

func TestAdd_UniqueIDs(t *testing.T) {
	s := newTestStore(t)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		it, err := s.Add(item.NewShopping(fmt.Sprintf("Item %d", i), "1", "1"))
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
		if seen[it.ID] {
			t.Fatalf("duplicate id %s", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestAdd_RejectsMalformed(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(item.Item{Product: "Leche", Quantity: "abc", Price: "1", Visible: true}); !errors.Is(err, item.ErrInvalidNumber) {
		t.Errorf("Add(bad quantity) error = %v, want ErrInvalidNumber", err)
	}
	if _, err := s.Add(item.Item{Product: "Leche", Quantity: "1", Price: "-2", Visible: true}); !errors.Is(err, item.ErrInvalidNumber) {
		t.Errorf("Add(negative price) error = %v, want ErrInvalidNumber", err)
	}
	if _, err := s.Add(item.Item{Product: "   ", Quantity: "1", Price: "1", Visible: true}); !errors.Is(err, item.ErrEmptyProduct) {
		t.Errorf("Add(blank product) error = %v, want ErrEmptyProduct", err)
	}
	if s.Len() != 0 {
		t.Errorf("rejected items must not be inserted, len = %d", s.Len())
	}
}

func TestAddBatch_PreservesOrder(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(item.NewShopping("Viejo", "1", "1")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	batch := []item.Item{
		item.NewShopping("Desodorante", "2", "45"),
		item.NewShopping("Desodorante", "1", "25"),
	}
	if _, err := s.AddBatch(batch); err != nil {
		t.Fatalf("AddBatch: %v", err)
	}

	items := s.Items()
	want := []string{"Desodorante", "Desodorante", "Viejo"}
	for i, p := range want {
		if items[i].Product != p {
			t.Errorf("items[%d].Product = %q, want %q", i, items[i].Product, p)
		}
	}
	if items[0].Quantity != "2" || items[1].Quantity != "1" {
		t.Errorf("batch order not preserved: %q then %q", items[0].Quantity, items[1].Quantity)
	}
}

func TestAddBatch_AllOrNothing(t *testing.T) {
	s := newTestStore(t)
	batch := []item.Item{
		item.NewShopping("Leche", "1", "10"),
		{Product: "", Visible: true},
	}
	if _, err := s.AddBatch(batch); err == nil {
		t.Fatalf("AddBatch with invalid entry should fail")
	}
	if s.Len() != 0 {
		t.Errorf("failed batch must insert nothing, len = %d", s.Len())
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Add(item.NewShopping("A", "1", "1"))
	b, _ := s.Add(item.NewShopping("B", "1", "1"))
	c, _ := s.Add(item.NewShopping("C", "1", "1"))

	if err := s.Remove(b.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].ID != c.ID || items[1].ID != a.ID {
		t.Errorf("remaining items out of order")
	}

	if err := s.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(missing) error = %v, want ErrNotFound", err)
	}
}

func TestToggleVisible_Twice(t *testing.T) {
	s := newTestStore(t)
	it, _ := s.Add(item.NewShopping("Leche", "2", "10"))

	before := s.Total()
	if err := s.ToggleVisible(it.ID); err != nil {
		t.Fatalf("ToggleVisible: %v", err)
	}
	if got := s.Total(); got != 0 {
		t.Errorf("Total after hide = %v, want 0", got)
	}
	if err := s.ToggleVisible(it.ID); err != nil {
		t.Fatalf("ToggleVisible: %v", err)
	}
	if got := s.Total(); got != before {
		t.Errorf("Total after double toggle = %v, want %v", got, before)
	}
	got, _ := s.Get(it.ID)
	if !got.Visible {
		t.Errorf("double toggle should restore visibility")
	}
}

func TestToggleUncertain(t *testing.T) {
	s := newTestStore(t)
	it, _ := s.Add(item.NewShopping("Leche", "1", "10"))

	if err := s.ToggleUncertain(it.ID); err != nil {
		t.Fatalf("ToggleUncertain: %v", err)
	}
	got, _ := s.Get(it.ID)
	if !got.PriceUncertain {
		t.Errorf("PriceUncertain should be set")
	}
	// display flag only, total unchanged
	if s.Total() != 10 {
		t.Errorf("Total = %v, want 10", s.Total())
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	it, _ := s.Add(item.NewShopping("Lech", "1", "10"))

	if err := s.Update(it.ID, "Leche", "2", "12.50"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := s.Get(it.ID)
	if got.Product != "Leche" || got.Quantity != "2" || got.Price != "12.50" {
		t.Errorf("Update did not apply: %+v", got)
	}

	if err := s.Update(it.ID, "Leche", "x", "1"); !errors.Is(err, item.ErrInvalidNumber) {
		t.Errorf("Update(bad quantity) error = %v, want ErrInvalidNumber", err)
	}
}

func TestUpdate_EmptyAmountsRestoreDefaults(t *testing.T) {
	s := newTestStore(t)
	it, _ := s.Add(item.NewShopping("Leche", "2", "12.50"))

	if err := s.Update(it.ID, "Leche", "", ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := s.Get(it.ID)
	if got.Quantity != item.DefaultQuantity || got.Price != item.DefaultPrice {
		t.Errorf("cleared amounts = %q/%q, want defaults", got.Quantity, got.Price)
	}
}

func TestUpdate_WishlistKeepsEmptyAmounts(t *testing.T) {
	blobs, err := kv.Open(t.TempDir())
	if err != nil {
		t.Fatalf("kv.Open: %v", err)
	}
	s := New(blobs, WishlistKey)
	it, _ := s.Add(item.NewWishlist("Bicicleta"))

	if err := s.Update(it.ID, "Bici", "", ""); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := s.Get(it.ID)
	if got.Quantity != "" || got.Price != "" {
		t.Errorf("wishlist entry gained amounts: %+v", got)
	}
}

func TestReorder(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Add(item.NewShopping("A", "1", "1"))
	b, _ := s.Add(item.NewShopping("B", "1", "1"))
	c, _ := s.Add(item.NewShopping("C", "1", "1"))

	if err := s.Reorder([]string{a.ID, c.ID, b.ID}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	items := s.Items()
	if items[0].ID != a.ID || items[1].ID != c.ID || items[2].ID != b.ID {
		t.Errorf("Reorder did not apply")
	}

	if err := s.Reorder([]string{a.ID}); err == nil {
		t.Errorf("Reorder with wrong length should fail")
	}
	if err := s.Reorder([]string{a.ID, c.ID, "nope"}); err == nil {
		t.Errorf("Reorder with unknown id should fail")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			blobs, err := kv.Open(t.TempDir())
			if err != nil {
				t.Fatalf("kv.Open: %v", err)
			}
			s := New(blobs, ShoppingKey)
			for i := 0; i < n; i++ {
				if _, err := s.Add(item.NewShopping(fmt.Sprintf("Item %d", i), "2", "3.50")); err != nil {
					t.Fatalf("Add: %v", err)
				}
			}
			if n > 0 {
				if err := s.ToggleVisible(s.Items()[0].ID); err != nil {
					t.Fatalf("ToggleVisible: %v", err)
				}
			}
			s.Flush()

			reloaded := New(blobs, ShoppingKey)
			if err := reloaded.Load(); err != nil {
				t.Fatalf("Load: %v", err)
			}
			want := s.Items()
			got := reloaded.Items()
			if len(got) != len(want) {
				t.Fatalf("len = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("item %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestLoad_DefaultsMissingVisible(t *testing.T) {
	blobs, err := kv.Open(t.TempDir())
	if err != nil {
		t.Fatalf("kv.Open: %v", err)
	}
	// blob written by a version that predates the visible flag
	blob := `[{"id":"1","product":"Leche","quantity":"1","price":"10"},{"id":"2","product":"Pan","quantity":"1","price":"5","visible":false}]`
	if err := blobs.Put(ShoppingKey, []byte(blob)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	s := New(blobs, ShoppingKey)
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	items := s.Items()
	if !items[0].Visible {
		t.Errorf("missing visible should default to true")
	}
	if items[1].Visible {
		t.Errorf("explicit visible=false must be kept")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	s.Add(item.NewShopping("A", "1", "1"))
	s.Add(item.NewShopping("B", "1", "1"))
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Clear left %d items", s.Len())
	}
}

func TestReplace(t *testing.T) {
	s := newTestStore(t)
	s.Add(item.NewWishlist("A"))
	replacement := []item.Item{
		{ID: "x", Product: "B", Visible: false},
	}
	s.Replace(replacement)
	items := s.Items()
	if len(items) != 1 || items[0].ID != "x" || items[0].Visible {
		t.Errorf("Replace did not apply: %+v", items)
	}
}
