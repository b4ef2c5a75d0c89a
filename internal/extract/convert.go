package extract

import "changuito/internal/item"

// ToShoppingItems builds shopping list items from candidates, filling
// the usual defaults for missing amounts.
func ToShoppingItems(candidates []Candidate) []item.Item {
	items := make([]item.Item, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, item.NewShopping(c.Product, c.Quantity, c.Price))
	}
	return items
}

// ToWishlistItems builds wishlist items from candidates.
func ToWishlistItems(candidates []Candidate) []item.Item {
	items := make([]item.Item, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, item.NewWishlist(c.Product))
	}
	return items
}
