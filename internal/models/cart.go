// internal/models/cart.go
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartItem is a product snapshot plus the quantity selected.
type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

func (i CartItem) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// Cart holds the line items for one browsing session. At most one line item
// exists per product id; adding an existing product increments its quantity.
type Cart struct {
	SessionKey string     `json:"session_key"`
	Items      []CartItem `json:"items"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func NewCart(sessionKey string) *Cart {
	return &Cart{SessionKey: sessionKey}
}

// Add merges the product into an existing line item or appends a new one at
// quantity 1.
func (c *Cart) Add(p Product) {
	now := time.Now()
	c.UpdatedAt = now
	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1, AddedAt: now})
}

// Remove drops the line item for the product id. Removing an absent product
// is a no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// SetQuantity overrides the quantity of an existing line item. Quantities
// below 1 are rejected and leave the cart unchanged.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			c.Items[i].Quantity = quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrCartItemNotFound
}

func (c *Cart) Clear() {
	c.Items = nil
	c.UpdatedAt = time.Now()
}

// Total recomputes sum(price x quantity) on every call; it is never cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Snapshot returns a deep copy of the current line items, used to freeze the
// cart contents at checkout review time.
func (c *Cart) Snapshot() []CartItem {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return items
}

var ErrCartItemNotFound = errors.New("product is not in the cart")
