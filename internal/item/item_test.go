package item

import (
	"errors"
	"strings"
	"testing"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewID_Shape(t *testing.T) {
	id := NewID()
	if len(id) < idSuffixLen+1 {
		t.Errorf("id too short: %q", id)
	}
	for _, r := range id {
		if !strings.ContainsRune(base36, r) {
			t.Errorf("id contains unexpected rune %q in %q", r, id)
		}
	}
}

func TestNewShopping_Defaults(t *testing.T) {
	it := NewShopping("Leche", "", "")
	if it.Quantity != "1" {
		t.Errorf("Quantity = %q, want %q", it.Quantity, "1")
	}
	if it.Price != "0" {
		t.Errorf("Price = %q, want %q", it.Price, "0")
	}
	if !it.Visible {
		t.Errorf("new items should be visible")
	}
	if it.ID == "" {
		t.Errorf("new items should get an id")
	}
}

func TestNewWishlist_NoAmounts(t *testing.T) {
	it := NewWishlist("Tomates")
	if it.Quantity != "" || it.Price != "" {
		t.Errorf("wishlist items must not carry quantity/price, got %q/%q", it.Quantity, it.Price)
	}
	if !it.Visible {
		t.Errorf("new items should be visible")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1", 1, false},
		{"0", 0, false},
		{"0.323", 0.323, false},
		{"45.50", 45.5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-1", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) = %v, want error", tt.in, got)
			} else if !errors.Is(err, ErrInvalidNumber) {
				t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidNumber", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTotal(t *testing.T) {
	items := []Item{
		{ID: "a", Product: "Desodorante", Quantity: "2", Price: "45", Visible: true},
		{ID: "b", Product: "Desodorante", Quantity: "1", Price: "25", Visible: true},
		{ID: "c", Product: "Tomate", Quantity: "0.323", Price: "80", Visible: true},
	}
	// 2*45 + 1*25 + 0.323*80 = 90 + 25 + 25.84 = 140.84
	if got := Total(items); got != 140.84 {
		t.Errorf("Total = %v, want 140.84", got)
	}
}

func TestTotal_HiddenExcluded(t *testing.T) {
	items := []Item{
		{ID: "a", Quantity: "2", Price: "10", Visible: true},
		{ID: "b", Quantity: "5", Price: "100", Visible: false},
	}
	if got := Total(items); got != 20 {
		t.Errorf("Total = %v, want 20 (hidden items contribute 0)", got)
	}
}

func TestTotal_Rounding(t *testing.T) {
	items := []Item{
		{ID: "a", Quantity: "3", Price: "0.1", Visible: true},
	}
	if got := Total(items); got != 0.3 {
		t.Errorf("Total = %v, want 0.3", got)
	}
}

func TestTotal_MalformedContributesZero(t *testing.T) {
	items := []Item{
		{ID: "a", Quantity: "2", Price: "10", Visible: true},
		{ID: "b", Quantity: "x", Price: "100", Visible: true},
	}
	if got := Total(items); got != 20 {
		t.Errorf("Total = %v, want 20", got)
	}
}

func TestTotal_Empty(t *testing.T) {
	if got := Total(nil); got != 0 {
		t.Errorf("Total(nil) = %v, want 0", got)
	}
}
