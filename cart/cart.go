// Package cart implements the pre-checkout shopping cart. A cart is an
// ephemeral, session-scoped list of candidate purchase lines; its stock
// checks use the quantity snapshot cached at add time and are advisory
// only. The authoritative check happens when the sale recorder runs the
// conditional inventory decrement.
package cart

import (
	"errors"
	"time"

	"github.com/Patricemapiye-ctrl/navira-forge/models"
)

var (
	// ErrStockExceeded is returned when adding would push a line past the
	// last-known available stock for that item.
	ErrStockExceeded = errors.New("cart: requested quantity exceeds available stock")

	// ErrLineNotFound is returned when the cart has no line for the item.
	ErrLineNotFound = errors.New("cart: item not in cart")

	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
)

// Line is one candidate purchase: an inventory reference plus the unit
// price and stock level cached when the item was added.
type Line struct {
	InventoryID    uint    `json:"inventory_id"`
	ItemCode       string  `json:"item_code"`
	ItemName       string  `json:"item_name"`
	UnitPrice      float64 `json:"unit_price"`
	Quantity       int     `json:"quantity"`
	AvailableStock int     `json:"available_stock"`
}

// Subtotal returns quantity × cached unit price for the line.
func (l Line) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// Cart accumulates lines for a single browsing session.
type Cart struct {
	ID        string    `json:"id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty cart with the given session ID.
func New(id string) *Cart {
	return &Cart{ID: id}
}

// Add puts qty units of item into the cart. If the item is already present
// its line quantity is increased and the stock snapshot refreshed.
// Rejected, leaving the cart unchanged, when the post-add quantity would
// exceed the item's current stock.
func (c *Cart) Add(item models.InventoryItem, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	for i := range c.Lines {
		if c.Lines[i].InventoryID != item.ID {
			continue
		}
		if c.Lines[i].Quantity+qty > item.Quantity {
			return ErrStockExceeded
		}
		c.Lines[i].Quantity += qty
		c.Lines[i].AvailableStock = item.Quantity
		c.touch()
		return nil
	}

	if qty > item.Quantity {
		return ErrStockExceeded
	}

	c.Lines = append(c.Lines, Line{
		InventoryID:    item.ID,
		ItemCode:       item.ItemCode,
		ItemName:       item.ItemName,
		UnitPrice:      item.UnitPrice,
		Quantity:       qty,
		AvailableStock: item.Quantity,
	})
	c.touch()
	return nil
}

// UpdateQuantity sets the line quantity, clamped to [1, available stock].
// Returns the quantity actually applied. Dropping below 1 is not allowed;
// use Remove instead.
func (c *Cart) UpdateQuantity(inventoryID uint, qty int) (int, error) {
	for i := range c.Lines {
		if c.Lines[i].InventoryID != inventoryID {
			continue
		}
		if qty < 1 {
			qty = 1
		}
		if qty > c.Lines[i].AvailableStock {
			qty = c.Lines[i].AvailableStock
		}
		c.Lines[i].Quantity = qty
		c.touch()
		return qty, nil
	}
	return 0, ErrLineNotFound
}

// Remove deletes the line unconditionally. Removing an absent item is a
// no-op.
func (c *Cart) Remove(inventoryID uint) {
	for i := range c.Lines {
		if c.Lines[i].InventoryID == inventoryID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return
		}
	}
}

// Total recomputes the cart total from its lines on every call. It is
// deliberately never cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
