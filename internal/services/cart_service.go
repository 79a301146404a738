// internal/services/cart_service.go
package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
)

var ErrProductUnavailable = errors.New("product is not available")

// CartService manages the per-session carts. Every mutation runs under the
// session's cart lock, so a session only ever has one writer at a time.
type CartService struct {
	store *store.Store
}

func NewCartService(s *store.Store) *CartService {
	return &CartService{store: s}
}

// GetCart returns the session's cart, creating an empty one on first use.
func (s *CartService) GetCart(sessionKey string) (models.Cart, error) {
	return s.store.WithCart(sessionKey, func(*models.Cart) error { return nil })
}

// AddItem merges one unit of the product into the cart. The product must
// exist, be approved, and have stock; the line item captures its current
// price.
func (s *CartService) AddItem(sessionKey string, productID uuid.UUID) (models.Cart, error) {
	product, err := s.store.GetProduct(productID)
	if err != nil {
		return models.Cart{}, err
	}
	if !product.IsApproved {
		return models.Cart{}, ErrProductUnavailable
	}
	if !product.InStock() {
		return models.Cart{}, ErrProductUnavailable
	}

	return s.store.WithCart(sessionKey, func(cart *models.Cart) error {
		cart.Add(product)
		return nil
	})
}

func (s *CartService) RemoveItem(sessionKey string, productID uuid.UUID) (models.Cart, error) {
	return s.store.WithCart(sessionKey, func(cart *models.Cart) error {
		cart.Remove(productID)
		return nil
	})
}

// SetQuantity overrides a line item's quantity. Values below 1 are rejected
// without touching the cart; callers that want removal use RemoveItem.
func (s *CartService) SetQuantity(sessionKey string, productID uuid.UUID, quantity int) (models.Cart, error) {
	return s.store.WithCart(sessionKey, func(cart *models.Cart) error {
		return cart.SetQuantity(productID, quantity)
	})
}

func (s *CartService) Clear(sessionKey string) (models.Cart, error) {
	return s.store.WithCart(sessionKey, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	})
}
