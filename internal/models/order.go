// internal/models/order.go
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrOrderTerminal = errors.New("order is in a terminal state")

// TimelineEntry records one status change. The timeline is append-only and
// ordered by occurrence.
type TimelineEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

type Order struct {
	ID              string          `json:"id"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	BuyerName       string          `json:"buyer_name"`
	Items           []CartItem      `json:"items"`
	Total           float64         `json:"total"`
	Status          OrderStatus     `json:"status"`
	Timeline        []TimelineEntry `json:"timeline"`
	ShippingAddress Address         `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PaymentRef      string          `json:"payment_ref,omitempty"`
	PlacedAt        time.Time       `json:"placed_at"`
}

// Transition moves the order to the next status and appends exactly one
// timeline entry. Timestamps never run backwards even if the wall clock
// does: they are clamped to the previous entry's timestamp.
func (o *Order) Transition(status OrderStatus, now time.Time) error {
	if !status.IsValid() {
		return errors.New("unknown order status")
	}
	if o.Status.IsTerminal() {
		return ErrOrderTerminal
	}
	if last := o.lastTimelineEntry(); last != nil && now.Before(last.Timestamp) {
		now = last.Timestamp
	}
	o.Status = status
	o.Timeline = append(o.Timeline, TimelineEntry{Status: status, Timestamp: now})
	return nil
}

func (o *Order) lastTimelineEntry() *TimelineEntry {
	if len(o.Timeline) == 0 {
		return nil
	}
	return &o.Timeline[len(o.Timeline)-1]
}

// SellerIDs returns the distinct sellers whose products appear in the order.
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, item := range o.Items {
		if !seen[item.Product.SellerID] {
			seen[item.Product.SellerID] = true
			ids = append(ids, item.Product.SellerID)
		}
	}
	return ids
}

// progressMilestones is the fixed sequence a shipment is tracked against.
var progressMilestones = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

const ProgressStepCount = 5

// ProgressIndex maps a status to its position on the tracking milestones.
// Pre-confirmation states pin to the first step, statuses between milestones
// default to the second.
func ProgressIndex(status OrderStatus) int {
	if status == OrderStatusPlaced || status == OrderStatusCODPending {
		return 0
	}
	for i, s := range progressMilestones {
		if s == status {
			return i
		}
	}
	return 1
}
