// internal/services/checkout_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/humbleetrees/storefront-backend/internal/config"
	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrStepOutOfOrder    = errors.New("checkout steps must be completed in order")
	ErrNoCheckout        = errors.New("no checkout in progress for this session")
	ErrNotAddressOwner   = errors.New("address does not belong to the buyer")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPaymentFailed     = errors.New("payment failed")
)

type checkoutStep int

const (
	stepAddress checkoutStep = iota + 1
	stepReview
)

// checkoutState is the per-session progress through the 3-step flow. The
// cart snapshot is frozen at review time; later cart edits do not leak into
// a submitted order.
type checkoutState struct {
	step      checkoutStep
	addressID uuid.UUID
	snapshot  []models.CartItem
	total     float64
}

// CheckoutService drives the strictly ordered address, review, payment flow
// and owns order creation. Submissions are idempotent, keyed by a
// client-generated request token: retrying a settled token returns the
// original order instead of minting a duplicate.
type CheckoutService struct {
	store        *store.Store
	cfg          *config.Config
	provider     PaymentProvider
	notification *NotificationService

	mu       sync.Mutex
	sessions map[string]*checkoutState
	settled  map[string]string // buyer-scoped request token -> order id
}

// settledKey scopes idempotency tokens to the buyer, so one buyer's token
// can never replay another buyer's order.
func settledKey(buyerID uuid.UUID, token string) string {
	return buyerID.String() + ":" + token
}

func NewCheckoutService(s *store.Store, cfg *config.Config, provider PaymentProvider, notification *NotificationService) *CheckoutService {
	return &CheckoutService{
		store:        s,
		cfg:          cfg,
		provider:     provider,
		notification: notification,
		sessions:     make(map[string]*checkoutState),
		settled:      make(map[string]string),
	}
}

type ReviewResponse struct {
	Items   []models.CartItem `json:"items"`
	Total   float64           `json:"total"`
	Address models.Address    `json:"address"`
}

type SubmitRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,oneof=cod prepaid"`
	RequestToken  string               `json:"request_token" validate:"required,min=8,max=64"`
}

// SelectAddress begins a checkout: the flow is blocked until a shipping
// address owned by the buyer is chosen.
func (s *CheckoutService) SelectAddress(sessionKey string, buyerID, addressID uuid.UUID) error {
	cart, err := s.store.WithCart(sessionKey, func(*models.Cart) error { return nil })
	if err != nil {
		return err
	}
	if cart.IsEmpty() {
		return ErrEmptyCart
	}

	address, err := s.store.GetAddress(addressID)
	if err != nil {
		return err
	}
	if address.UserID != buyerID {
		return ErrNotAddressOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey] = &checkoutState{step: stepAddress, addressID: addressID}
	return nil
}

// Review freezes the cart contents for the summary step. It requires an
// address to have been selected first.
func (s *CheckoutService) Review(sessionKey string) (*ReviewResponse, error) {
	s.mu.Lock()
	state, ok := s.sessions[sessionKey]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoCheckout
	}
	if state.step < stepAddress {
		return nil, ErrStepOutOfOrder
	}

	cart, err := s.store.WithCart(sessionKey, func(*models.Cart) error { return nil })
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	address, err := s.store.GetAddress(state.addressID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	state.snapshot = cart.Snapshot()
	state.total = cart.Total()
	state.step = stepReview
	s.mu.Unlock()

	return &ReviewResponse{
		Items:   state.snapshot,
		Total:   state.total,
		Address: address,
	}, nil
}

// Submit completes the checkout: reserves stock, collects payment through
// the provider, creates the order from the reviewed snapshot, clears the
// cart and the checkout state.
func (s *CheckoutService) Submit(ctx context.Context, sessionKey string, buyerID uuid.UUID, req *SubmitRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Idempotency: a token the buyer already settled returns its order.
	tokenKey := settledKey(buyerID, req.RequestToken)
	s.mu.Lock()
	if orderID, ok := s.settled[tokenKey]; ok {
		s.mu.Unlock()
		order, err := s.store.GetOrder(orderID)
		if err != nil {
			return nil, err
		}
		return &order, nil
	}
	state, ok := s.sessions[sessionKey]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoCheckout
	}
	if state.step < stepReview {
		s.mu.Unlock()
		return nil, ErrStepOutOfOrder
	}
	snapshot := state.snapshot
	total := state.total
	addressID := state.addressID
	s.mu.Unlock()

	buyer, err := s.store.GetUser(buyerID)
	if err != nil {
		return nil, err
	}
	address, err := s.store.GetAddress(addressID)
	if err != nil {
		return nil, err
	}

	// Stock is reserved before payment is collected. A failed payment only
	// has a reservation to undo; the reverse order could charge the buyer
	// for an order that never gets stock.
	if err := s.reserveStock(snapshot); err != nil {
		return nil, err
	}

	var payment *PaymentResult
	if req.PaymentMethod == models.PaymentMethodPrepaid {
		result, err := s.provider.Collect(ctx, total, s.cfg.Checkout.Currency)
		if err != nil {
			s.releaseStock(snapshot)
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		payment = &result
	}

	orderID, err := utils.GenerateOrderID()
	if err != nil {
		s.releaseStock(snapshot)
		return nil, err
	}

	now := time.Now()
	order := models.Order{
		ID:              orderID,
		BuyerID:         buyer.ID,
		BuyerName:       buyer.Name,
		Items:           snapshot,
		Total:           total,
		ShippingAddress: address,
		PaymentMethod:   req.PaymentMethod,
		PlacedAt:        now,
	}
	if payment != nil {
		order.PaymentRef = payment.Reference
		order.Status = models.OrderStatusPending
		order.Timeline = []models.TimelineEntry{{Status: models.OrderStatusPending, Timestamp: now}}
		if err := order.Transition(models.OrderStatusPaid, payment.PaidAt); err != nil {
			s.releaseStock(snapshot)
			return nil, err
		}
	} else {
		order.Status = models.OrderStatusPlaced
		order.Timeline = []models.TimelineEntry{{Status: models.OrderStatusPlaced, Timestamp: now}}
	}

	s.store.SaveOrder(order)

	s.mu.Lock()
	s.settled[tokenKey] = order.ID
	delete(s.sessions, sessionKey)
	s.mu.Unlock()

	if _, err := s.store.WithCart(sessionKey, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	}); err != nil {
		logrus.WithError(err).WithField("session", sessionKey).Warn("Failed to clear cart after checkout")
	}

	s.notification.SendOrderConfirmation(&order)
	s.notification.SendSaleNotification(&order)

	logrus.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"buyer_id":       buyer.ID,
		"total":          order.Total,
		"payment_method": order.PaymentMethod,
	}).Info("Order placed")

	return &order, nil
}

// reserveStock decrements inventory for every line item. If any product
// lacks stock, decrements already applied for earlier items are restored
// before the error is returned, so a failed submission never loses
// inventory.
func (s *CheckoutService) reserveStock(items []models.CartItem) error {
	for i, item := range items {
		err := s.store.UpdateProduct(item.Product.ID, func(p *models.Product) error {
			if p.Stock < item.Quantity {
				return ErrInsufficientStock
			}
			p.Stock -= item.Quantity
			return nil
		})
		if err != nil {
			s.releaseStock(items[:i])
			return err
		}
	}
	return nil
}

// releaseStock returns previously reserved quantities to inventory.
func (s *CheckoutService) releaseStock(items []models.CartItem) {
	for _, item := range items {
		err := s.store.UpdateProduct(item.Product.ID, func(p *models.Product) error {
			p.Stock += item.Quantity
			return nil
		})
		if err != nil {
			logrus.WithError(err).WithField("product_id", item.Product.ID).
				Warn("Failed to release reserved stock")
		}
	}
}
