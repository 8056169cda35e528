// Package cart holds marketplace cart lines and derives the delivery fee and
// totals for a drop-off location.
package cart

import (
	"errors"

	"github.com/Simplici0/diamond-courier/internal/catalog"
	"github.com/Simplici0/diamond-courier/internal/geo"
)

// Per-line quantity and whole-cart subtotal limits.
const (
	MaxQuantity = 999
	MaxSubtotal = 1_000_000_000
)

var (
	// ErrInvalidQuantity is returned for a line quantity outside 1..MaxQuantity.
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")
	// ErrTotalTooLarge is returned when a change would push the subtotal past MaxSubtotal.
	ErrTotalTooLarge = errors.New("cart total too large")
)

// ShopRef is the part of a shop a cart line needs.
type ShopRef struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Coords geo.Coordinate `json:"coords"`
}

// RefOf trims a catalog shop down to a ShopRef.
func RefOf(s catalog.Shop) ShopRef {
	return ShopRef{ID: s.ID, Name: s.Name, Coords: s.Coords}
}

// Item is one cart line.
type Item struct {
	Product  catalog.Product `json:"product"`
	Shop     ShopRef         `json:"shop"`
	Quantity int             `json:"quantity"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() int {
	return i.Product.Price * i.Quantity
}

// Cart is an ordered list of lines, at most one per product id.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of p in the cart, merging into an existing line. It is a
// no-op once the line or cart is at its limit.
func (c *Cart) Add(p catalog.Product, shop ShopRef) {
	_ = c.Put(p, shop, 1)
}

// Put adds qty units of p, merging into an existing line. The merged
// quantity must stay within MaxQuantity and the subtotal within MaxSubtotal.
func (c *Cart) Put(p catalog.Product, shop ShopRef, qty int) error {
	if qty < 1 || qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	i := c.index(p.ID)
	if i >= 0 {
		qty += c.items[i].Quantity
	}
	if err := c.fits(i, p.Price, qty); err != nil {
		return err
	}
	if i >= 0 {
		c.items[i].Quantity = qty
		return nil
	}
	c.items = append(c.items, Item{Product: p, Shop: shop, Quantity: qty})
	return nil
}

// Increment raises a line's quantity by one, stopping at the cart limits.
// It reports whether the line exists.
func (c *Cart) Increment(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	next := c.items[i].Quantity + 1
	if c.fits(i, c.items[i].Product.Price, next) == nil {
		c.items[i].Quantity = next
	}
	return true
}

// Decrement lowers a line's quantity by one, never below 1. Use Remove to
// drop a line.
func (c *Cart) Decrement(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	if c.items[i].Quantity > 1 {
		c.items[i].Quantity--
	}
	return true
}

// Remove drops a line entirely.
func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len is the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Subtotal sums every line total.
func (c *Cart) Subtotal() int {
	total := 0
	for _, item := range c.items {
		total += item.LineTotal()
	}
	return total
}

// Shops returns the distinct shops referenced by the cart, in line order.
func (c *Cart) Shops() []ShopRef {
	seen := make(map[string]bool)
	shops := make([]ShopRef, 0)
	for _, item := range c.items {
		if seen[item.Shop.ID] {
			continue
		}
		seen[item.Shop.ID] = true
		shops = append(shops, item.Shop)
	}
	return shops
}

// fits checks that line i (or a new line when i < 0) can hold qty units at
// price without breaking the limits.
func (c *Cart) fits(i, price, qty int) error {
	if qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	others := 0
	for j, item := range c.items {
		if j != i {
			others += item.LineTotal()
		}
	}
	if price > 0 && price > (MaxSubtotal-others)/qty {
		return ErrTotalTooLarge
	}
	return nil
}

func (c *Cart) index(productID string) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
