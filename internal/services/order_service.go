// internal/services/order_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
)

var ErrNotOrderParty = errors.New("unauthorized to view this order")

type OrderService struct {
	store        *store.Store
	notification *NotificationService
}

func NewOrderService(s *store.Store, notification *NotificationService) *OrderService {
	return &OrderService{store: s, notification: notification}
}

// OrderTracking pairs an order with its position on the fixed milestone
// sequence for the tracking view.
type OrderTracking struct {
	Order         models.Order `json:"order"`
	ProgressIndex int          `json:"progress_index"`
	ProgressSteps int          `json:"progress_steps"`
}

// GetOrder returns an order if the caller is the buyer, one of its sellers,
// or an admin. Missing orders are reported as such, never substituted.
func (s *OrderService) GetOrder(orderID string, callerID uuid.UUID, role models.UserRole) (*OrderTracking, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !s.canView(&order, callerID, role) {
		return nil, ErrNotOrderParty
	}

	return &OrderTracking{
		Order:         order,
		ProgressIndex: models.ProgressIndex(order.Status),
		ProgressSteps: models.ProgressStepCount,
	}, nil
}

func (s *OrderService) canView(order *models.Order, callerID uuid.UUID, role models.UserRole) bool {
	if role == models.UserRoleAdmin || order.BuyerID == callerID {
		return true
	}
	for _, sellerID := range order.SellerIDs() {
		if sellerID == callerID {
			return true
		}
	}
	return false
}

func (s *OrderService) ListBuyerOrders(buyerID uuid.UUID) []models.Order {
	return s.store.ListOrdersByBuyer(buyerID)
}

func (s *OrderService) ListSellerOrders(sellerID uuid.UUID) []models.Order {
	return s.store.ListOrdersBySeller(sellerID)
}

// SellerSummary aggregates a seller's order activity for the farmer
// dashboard. Revenue counts only the seller's own line items and skips
// cancelled and refunded orders.
type SellerSummary struct {
	TotalOrders     int     `json:"total_orders"`
	OpenOrders      int     `json:"open_orders"`
	DeliveredOrders int     `json:"delivered_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}

func (s *OrderService) GetSellerSummary(sellerID uuid.UUID) SellerSummary {
	var summary SellerSummary
	for _, order := range s.store.ListOrdersBySeller(sellerID) {
		summary.TotalOrders++
		switch order.Status {
		case models.OrderStatusCancelled, models.OrderStatusRefunded:
			continue
		case models.OrderStatusDelivered:
			summary.DeliveredOrders++
		default:
			summary.OpenOrders++
		}
		for _, item := range order.Items {
			if item.Product.SellerID == sellerID {
				summary.TotalRevenue += item.Subtotal()
			}
		}
	}
	return summary
}

// UpdateStatus transitions an order and appends exactly one timeline entry.
// Sellers may only update orders containing their products; admins may
// update any order. Terminal orders reject all transitions.
func (s *OrderService) UpdateStatus(orderID string, callerID uuid.UUID, role models.UserRole, status models.OrderStatus) (*models.Order, error) {
	if role != models.UserRoleAdmin && role != models.UserRoleFarmer {
		return nil, ErrNotOrderParty
	}

	updated, err := s.store.UpdateOrder(orderID, func(o *models.Order) error {
		if role == models.UserRoleFarmer {
			owns := false
			for _, sellerID := range o.SellerIDs() {
				if sellerID == callerID {
					owns = true
					break
				}
			}
			if !owns {
				return ErrNotOrderParty
			}
		}
		return o.Transition(status, time.Now())
	})
	if err != nil {
		return nil, err
	}

	s.notification.SendStatusUpdate(&updated)
	return &updated, nil
}

// CancelOrder lets a buyer cancel their own order while it is still
// pre-shipment.
func (s *OrderService) CancelOrder(orderID string, buyerID uuid.UUID) (*models.Order, error) {
	updated, err := s.store.UpdateOrder(orderID, func(o *models.Order) error {
		if o.BuyerID != buyerID {
			return ErrNotOrderParty
		}
		if models.ProgressIndex(o.Status) >= models.ProgressIndex(models.OrderStatusShipped) &&
			o.Status != models.OrderStatusPlaced && o.Status != models.OrderStatusCODPending {
			return errors.New("order has already shipped")
		}
		return o.Transition(models.OrderStatusCancelled, time.Now())
	})
	if err != nil {
		return nil, err
	}

	s.notification.SendStatusUpdate(&updated)
	return &updated, nil
}
