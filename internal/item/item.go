package item

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// Item is a single shopping-list or wishlist entry. Wishlist entries carry
// no quantity, price or uncertainty flag; their JSON fields are omitted so
// both lists share one persisted shape.
type Item struct {
	ID             string `json:"id"`
	Product        string `json:"product"`
	Quantity       string `json:"quantity,omitempty"`
	Price          string `json:"price,omitempty"`
	Visible        bool   `json:"visible"`
	PriceUncertain bool   `json:"priceUncertain,omitempty"`
}

// ErrInvalidNumber is returned when a quantity or price string does not
// parse as a non-negative decimal.
var ErrInvalidNumber = errors.New("invalid number")

// ErrEmptyProduct is returned when an item is created or updated without a
// product name.
var ErrEmptyProduct = errors.New("product required")

const (
	idSuffixLen = 9
	base36      = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewID returns a new opaque item id: millisecond timestamp plus a random
// base36 suffix, unique enough for ids minted in the same millisecond.
func NewID() string {
	suffix := make([]byte, idSuffixLen)
	for i := range suffix {
		suffix[i] = base36[rand.Intn(len(base36))]
	}
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + string(suffix)
}

// Defaults for priced items when a field is left empty.
const (
	DefaultQuantity = "1"
	DefaultPrice    = "0"
)

// NewShopping creates a shopping-list item. Empty quantity and price take
// the shopping defaults.
func NewShopping(product, quantity, price string) Item {
	if quantity == "" {
		quantity = DefaultQuantity
	}
	if price == "" {
		price = DefaultPrice
	}
	return Item{
		ID:       NewID(),
		Product:  product,
		Quantity: quantity,
		Price:    price,
		Visible:  true,
	}
}

// NewWishlist creates a wishlist item. Wishlist entries have no quantity
// or price.
func NewWishlist(product string) Item {
	return Item{
		ID:      NewID(),
		Product: product,
		Visible: true,
	}
}

// ParseAmount parses a decimal quantity or price string. Negative values,
// NaN, infinities and non-numeric input are rejected.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}

// Total sums price times quantity over visible items, rounded to two
// decimal places. Entries whose amounts do not parse (possible only in
// blobs written by older versions, the store rejects them on entry)
// contribute zero rather than poisoning the total.
func Total(items []Item) float64 {
	var sum float64
	for _, it := range items {
		if !it.Visible {
			continue
		}
		price, err := ParseAmount(it.Price)
		if err != nil {
			continue
		}
		qty, err := ParseAmount(it.Quantity)
		if err != nil {
			continue
		}
		sum += price * qty
	}
	return math.Round(sum*100) / 100
}
