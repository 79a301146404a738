// internal/models/order_test.go
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(status OrderStatus, placedAt time.Time) Order {
	return Order{
		ID:       "ORD-10001",
		BuyerID:  uuid.New(),
		Status:   status,
		Timeline: []TimelineEntry{{Status: status, Timestamp: placedAt}},
		PlacedAt: placedAt,
	}
}

func TestTransitionAppendsExactlyOneEntry(t *testing.T) {
	now := time.Now()
	order := testOrder(OrderStatusPending, now)

	require.NoError(t, order.Transition(OrderStatusPaid, now.Add(time.Minute)))

	assert.Equal(t, OrderStatusPaid, order.Status)
	require.Len(t, order.Timeline, 2)
	assert.Equal(t, OrderStatusPaid, order.Timeline[1].Status)
}

func TestTransitionClampsBackwardsTimestamps(t *testing.T) {
	now := time.Now()
	order := testOrder(OrderStatusPending, now)

	// A clock that ran backwards must not produce an out-of-order timeline.
	require.NoError(t, order.Transition(OrderStatusPaid, now.Add(-time.Hour)))

	require.Len(t, order.Timeline, 2)
	assert.Equal(t, order.Timeline[0].Timestamp, order.Timeline[1].Timestamp)
}

func TestTransitionRejectsTerminalOrders(t *testing.T) {
	now := time.Now()
	for _, status := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded} {
		order := testOrder(status, now)
		err := order.Transition(OrderStatusProcessing, now.Add(time.Minute))
		assert.ErrorIs(t, err, ErrOrderTerminal, "status %s", status)
		assert.Len(t, order.Timeline, 1)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	now := time.Now()
	order := testOrder(OrderStatusPending, now)
	assert.Error(t, order.Transition(OrderStatus("teleported"), now))
	assert.Len(t, order.Timeline, 1)
}

func TestTransitionFullLifecycle(t *testing.T) {
	now := time.Now()
	order := testOrder(OrderStatusPending, now)

	steps := []OrderStatus{
		OrderStatusPaid,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
	}
	for i, status := range steps {
		require.NoError(t, order.Transition(status, now.Add(time.Duration(i+1)*time.Hour)))
	}

	require.Len(t, order.Timeline, 5)
	for i := 1; i < len(order.Timeline); i++ {
		assert.False(t, order.Timeline[i].Timestamp.Before(order.Timeline[i-1].Timestamp))
	}
	assert.True(t, order.Status.IsTerminal())
}

func TestProgressIndex(t *testing.T) {
	assert.Equal(t, 0, ProgressIndex(OrderStatusPlaced))
	assert.Equal(t, 0, ProgressIndex(OrderStatusCODPending))
	assert.Equal(t, 0, ProgressIndex(OrderStatusPending))
	assert.Equal(t, 1, ProgressIndex(OrderStatusPaid))
	assert.Equal(t, 2, ProgressIndex(OrderStatusProcessing))
	assert.Equal(t, 3, ProgressIndex(OrderStatusShipped))
	assert.Equal(t, 4, ProgressIndex(OrderStatusDelivered))

	// Intermediate fulfilment states sit between confirmed and shipped.
	assert.Equal(t, 1, ProgressIndex(OrderStatusPacked))
	assert.Equal(t, 1, ProgressIndex(OrderStatusOutForDelivery))
}

func TestSellerIDsDeduplicates(t *testing.T) {
	seller := uuid.New()
	other := uuid.New()
	order := Order{
		Items: []CartItem{
			{Product: Product{ID: uuid.New(), SellerID: seller}, Quantity: 1},
			{Product: Product{ID: uuid.New(), SellerID: seller}, Quantity: 2},
			{Product: Product{ID: uuid.New(), SellerID: other}, Quantity: 1},
		},
	}

	ids := order.SellerIDs()
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, seller)
	assert.Contains(t, ids, other)
}
