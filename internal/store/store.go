// Package store keeps an ordered, newest-first item list in memory and
// mirrors every mutation to a persisted JSON blob.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"changuito/internal/item"
	"changuito/internal/kv"
)

// Blob keys for the two lists.
const (
	ShoppingKey = "SHOPPING_ITEMS"
	WishlistKey = "WISHLIST_ITEMS"
)

// ErrNotFound is returned when an id is not present in the list.
var ErrNotFound = errors.New("item not found")

// Store is an in-memory item list persisted under a single blob key.
// Mutations update memory synchronously and write the blob from a
// background goroutine; the last write wins.
type Store struct {
	key   string
	blobs *kv.Store

	mu    sync.Mutex
	items []item.Item

	wg       sync.WaitGroup
	saveMu   sync.Mutex
	saveSeq  uint64
	savedSeq uint64
}

func New(blobs *kv.Store, key string) *Store {
	return &Store{key: key, blobs: blobs}
}

// persistedItem tolerates blobs written before the visible flag existed:
// a missing field defaults to true instead of false.
type persistedItem struct {
	ID             string `json:"id"`
	Product        string `json:"product"`
	Quantity       string `json:"quantity,omitempty"`
	Price          string `json:"price,omitempty"`
	Visible        *bool  `json:"visible"`
	PriceUncertain bool   `json:"priceUncertain,omitempty"`
}

// Load replaces the in-memory list with the persisted blob. A missing
// blob loads as an empty list.
func (s *Store) Load() error {
	data, err := s.blobs.Get(s.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			s.mu.Lock()
			s.items = nil
			s.mu.Unlock()
			return nil
		}
		return err
	}

	var persisted []persistedItem
	if err := json.Unmarshal(data, &persisted); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", s.key, err)
	}

	items := make([]item.Item, 0, len(persisted))
	for _, p := range persisted {
		visible := true
		if p.Visible != nil {
			visible = *p.Visible
		}
		items = append(items, item.Item{
			ID:             p.ID,
			Product:        p.Product,
			Quantity:       p.Quantity,
			Price:          p.Price,
			Visible:        visible,
			PriceUncertain: p.PriceUncertain,
		})
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the list, newest first.
func (s *Store) Items() []item.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]item.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (item.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return item.Item{}, false
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func validate(it item.Item) error {
	if strings.TrimSpace(it.Product) == "" {
		return item.ErrEmptyProduct
	}
	if it.Quantity != "" {
		if _, err := item.ParseAmount(it.Quantity); err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
	}
	if it.Price != "" {
		if _, err := item.ParseAmount(it.Price); err != nil {
			return fmt.Errorf("price: %w", err)
		}
	}
	return nil
}

// Add validates and prepends a single item, minting an id if none is set.
func (s *Store) Add(it item.Item) (item.Item, error) {
	if err := validate(it); err != nil {
		return item.Item{}, err
	}
	if it.ID == "" {
		it.ID = item.NewID()
	}

	s.mu.Lock()
	s.items = append([]item.Item{it}, s.items...)
	s.mu.Unlock()

	s.persist()
	return it, nil
}

// AddBatch prepends a block of items preserving their relative order, so
// the first extracted item ends up at the top of the list. Every item must
// validate; nothing is inserted otherwise.
func (s *Store) AddBatch(items []item.Item) ([]item.Item, error) {
	if len(items) == 0 {
		return nil, nil
	}
	added := make([]item.Item, len(items))
	for i, it := range items {
		if err := validate(it); err != nil {
			return nil, err
		}
		if it.ID == "" {
			it.ID = item.NewID()
		}
		added[i] = it
	}

	s.mu.Lock()
	s.items = append(append([]item.Item{}, added...), s.items...)
	s.mu.Unlock()

	s.persist()
	return added, nil
}

// Update rewrites the editable fields of the item with the given id.
// Clearing the quantity or price of a priced item restores the shopping
// defaults; wishlist entries carry no amounts and keep none.
func (s *Store) Update(id, product, quantity, price string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Quantity != "" && quantity == "" {
			quantity = item.DefaultQuantity
		}
		if s.items[i].Price != "" && price == "" {
			price = item.DefaultPrice
		}
		if err := validate(item.Item{Product: product, Quantity: quantity, Price: price}); err != nil {
			return err
		}
		s.items[i].Product = product
		s.items[i].Quantity = quantity
		s.items[i].Price = price
		s.persistLocked()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Remove deletes exactly one item; the rest keep their relative order.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ToggleVisible flips the visibility flag of one item.
func (s *Store) ToggleVisible(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Visible = !s.items[i].Visible
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ToggleUncertain flips the price-uncertainty display flag of one item.
func (s *Store) ToggleUncertain(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].PriceUncertain = !s.items[i].PriceUncertain
			s.persistLocked()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Reorder rearranges the list to match ids, which must be a permutation
// of the current id set.
func (s *Store) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ids) != len(s.items) {
		return fmt.Errorf("reorder: got %d ids, have %d items", len(ids), len(s.items))
	}
	byID := make(map[string]item.Item, len(s.items))
	for _, it := range s.items {
		byID[it.ID] = it
	}
	reordered := make([]item.Item, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder: %w: %s", ErrNotFound, id)
		}
		delete(byID, id)
		reordered = append(reordered, it)
	}
	s.items = reordered
	s.persistLocked()
	return nil
}

// Clear removes every item.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.persist()
}

// Replace swaps in a whole new list. Used by reconciliation write-back.
func (s *Store) Replace(items []item.Item) {
	s.mu.Lock()
	s.items = append([]item.Item{}, items...)
	s.mu.Unlock()
	s.persist()
}

// Total sums price times quantity over visible items, rounded to two
// decimals.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return item.Total(s.items)
}

// Flush blocks until in-flight persistence writes complete.
func (s *Store) Flush() {
	s.wg.Wait()
}

func (s *Store) persist() {
	s.mu.Lock()
	s.persistLocked()
	s.mu.Unlock()
}

// persistLocked snapshots the list under the held lock and writes the
// blob from a goroutine so mutating callers never wait on the disk. The
// sequence number keeps a stale snapshot from overwriting a newer one.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.items)
	if err != nil {
		log.Printf("store: failed to marshal %s: %v", s.key, err)
		return
	}
	s.saveSeq++
	seq := s.saveSeq
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.saveMu.Lock()
		defer s.saveMu.Unlock()
		if seq <= s.savedSeq {
			return
		}
		s.savedSeq = seq
		if err := s.blobs.Put(s.key, data); err != nil {
			log.Printf("store: failed to persist %s: %v", s.key, err)
		}
	}()
}
