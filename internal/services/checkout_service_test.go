// internal/services/checkout_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humbleetrees/storefront-backend/internal/config"
	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
)

type stubProvider struct {
	collected int
	err       error
}

func (p *stubProvider) Collect(ctx context.Context, amount float64, currency string) (PaymentResult, error) {
	p.collected++
	if p.err != nil {
		return PaymentResult{}, p.err
	}
	return PaymentResult{
		Reference: "pay_test_reference",
		Amount:    amount,
		Currency:  currency,
		PaidAt:    time.Now(),
	}, nil
}

type checkoutFixture struct {
	store    *store.Store
	service  *CheckoutService
	provider *stubProvider
	buyer    models.User
	address  models.Address
	product  models.Product
	session  string
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	s := store.New()
	cfg := &config.Config{
		Checkout: config.CheckoutConfig{Currency: "INR", PaymentLatency: 0},
	}

	buyer := models.User{
		ID:     uuid.New(),
		Name:   "John Doe",
		Email:  "john@example.com",
		Role:   models.UserRoleCustomer,
		Status: models.UserStatusActive,
	}
	require.NoError(t, s.SaveUser(buyer))

	address := models.Address{
		ID:           uuid.New(),
		UserID:       buyer.ID,
		FullName:     "John Doe",
		Phone:        "9876543210",
		AddressLine1: "12 Mount Road",
		City:         "Chennai",
		State:        "Tamil Nadu",
		Pincode:      "600002",
		IsDefault:    true,
	}
	s.SaveAddress(address)

	product := models.Product{
		ID:         uuid.New(),
		Name:       "Oyster Grow Kit",
		Price:      499,
		Stock:      5,
		SellerID:   uuid.New(),
		IsApproved: true,
	}
	s.SaveProduct(product)

	provider := &stubProvider{}
	svc := NewCheckoutService(s, cfg, provider, NewNotificationService(s))

	session := buyer.ID.String()
	_, err := s.WithCart(session, func(cart *models.Cart) error {
		cart.Add(product)
		cart.Add(product)
		return nil
	})
	require.NoError(t, err)

	return &checkoutFixture{
		store:    s,
		service:  svc,
		provider: provider,
		buyer:    buyer,
		address:  address,
		product:  product,
		session:  session,
	}
}

func (f *checkoutFixture) completeReview(t *testing.T) {
	t.Helper()
	require.NoError(t, f.service.SelectAddress(f.session, f.buyer.ID, f.address.ID))
	_, err := f.service.Review(f.session)
	require.NoError(t, err)
}

func TestCheckoutStepsMustRunInOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.Review(f.session)
	assert.ErrorIs(t, err, ErrNoCheckout)

	_, err = f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  "token-0001",
	})
	assert.ErrorIs(t, err, ErrNoCheckout)

	require.NoError(t, f.service.SelectAddress(f.session, f.buyer.ID, f.address.ID))

	// Submitting before review is still out of order.
	_, err = f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  "token-0001",
	})
	assert.ErrorIs(t, err, ErrStepOutOfOrder)
}

func TestCheckoutRequiresNonEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	_, err := f.store.WithCart(f.session, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	})
	require.NoError(t, err)

	err = f.service.SelectAddress(f.session, f.buyer.ID, f.address.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutRejectsForeignAddress(t *testing.T) {
	f := newCheckoutFixture(t)

	other := models.Address{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		FullName:     "Someone Else",
		AddressLine1: "1 Other Street",
		City:         "Chennai",
		State:        "Tamil Nadu",
		Pincode:      "600001",
	}
	f.store.SaveAddress(other)

	err := f.service.SelectAddress(f.session, f.buyer.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotAddressOwner)
}

func TestSubmitCODOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.completeReview(t)

	order, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  "token-cod-0001",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Empty(t, order.PaymentRef)
	require.Len(t, order.Timeline, 1)
	assert.Equal(t, 499*2.0, order.Total)
	assert.Zero(t, f.provider.collected)

	// Stock was reserved and the cart cleared.
	product, err := f.store.GetProduct(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)

	cart, err := f.store.WithCart(f.session, func(*models.Cart) error { return nil })
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestSubmitPrepaidOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.completeReview(t)

	order, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodPrepaid,
		RequestToken:  "token-pre-0001",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_test_reference", order.PaymentRef)
	require.Len(t, order.Timeline, 2)
	assert.Equal(t, models.OrderStatusPending, order.Timeline[0].Status)
	assert.Equal(t, models.OrderStatusPaid, order.Timeline[1].Status)
	assert.Equal(t, 1, f.provider.collected)
}

func TestSubmitIsIdempotentPerToken(t *testing.T) {
	f := newCheckoutFixture(t)
	f.completeReview(t)

	req := &SubmitRequest{
		PaymentMethod: models.PaymentMethodPrepaid,
		RequestToken:  "token-retry-0001",
	}

	first, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, req)
	require.NoError(t, err)

	// A retried submission settles to the same order without paying twice
	// or reserving more stock.
	second, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.provider.collected)

	product, err := f.store.GetProduct(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)
}

func TestSubmitFailsOnInsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t)
	f.completeReview(t)

	require.NoError(t, f.store.UpdateProduct(f.product.ID, func(p *models.Product) error {
		p.Stock = 1
		return nil
	}))

	_, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  "token-stock-0001",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestSubmitRestoresStockWhenLaterItemFails(t *testing.T) {
	f := newCheckoutFixture(t)

	// Second line item with no stock left, so reservation fails after the
	// first item has already been decremented.
	scarce := models.Product{
		ID:         uuid.New(),
		Name:       "Shiitake Grow Kit",
		Price:      649,
		Stock:      0,
		SellerID:   uuid.New(),
		IsApproved: true,
	}
	f.store.SaveProduct(scarce)
	_, err := f.store.WithCart(f.session, func(cart *models.Cart) error {
		cart.Add(scarce)
		return nil
	})
	require.NoError(t, err)
	f.completeReview(t)

	_, err = f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  "token-multi-0001",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The first item's reservation was rolled back.
	product, err := f.store.GetProduct(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestFailedReservationNeverCharges(t *testing.T) {
	f := newCheckoutFixture(t)
	f.completeReview(t)

	require.NoError(t, f.store.UpdateProduct(f.product.ID, func(p *models.Product) error {
		p.Stock = 1
		return nil
	}))

	req := &SubmitRequest{
		PaymentMethod: models.PaymentMethodPrepaid,
		RequestToken:  "token-reserve-0001",
	}
	_, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, req)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Zero(t, f.provider.collected)

	// Once stock returns, retrying the same token completes the checkout
	// with exactly one charge.
	require.NoError(t, f.store.UpdateProduct(f.product.ID, func(p *models.Product) error {
		p.Stock = 5
		return nil
	}))

	order, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, 1, f.provider.collected)
}

func TestSettledTokensAreScopedToBuyer(t *testing.T) {
	f := newCheckoutFixture(t)
	f.completeReview(t)

	token := "token-shared-0001"
	first, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  token,
	})
	require.NoError(t, err)

	// A different buyer reusing the same token value must not see the
	// first buyer's order.
	stranger := models.User{
		ID:     uuid.New(),
		Name:   "Priya",
		Email:  "priya@example.com",
		Role:   models.UserRoleCustomer,
		Status: models.UserStatusActive,
	}
	require.NoError(t, f.store.SaveUser(stranger))

	_, err = f.service.Submit(context.Background(), stranger.ID.String(), stranger.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  token,
	})
	assert.ErrorIs(t, err, ErrNoCheckout)

	// With a checkout of their own, the shared token settles to a new
	// order for the second buyer.
	strangerAddr := models.Address{
		ID:           uuid.New(),
		UserID:       stranger.ID,
		FullName:     "Priya",
		Phone:        "9876500000",
		AddressLine1: "4 Lake View Road",
		City:         "Chennai",
		State:        "Tamil Nadu",
		Pincode:      "600033",
	}
	f.store.SaveAddress(strangerAddr)

	session := stranger.ID.String()
	_, err = f.store.WithCart(session, func(cart *models.Cart) error {
		cart.Add(f.product)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, f.service.SelectAddress(session, stranger.ID, strangerAddr.ID))
	_, err = f.service.Review(session)
	require.NoError(t, err)

	second, err := f.service.Submit(context.Background(), session, stranger.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  token,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, stranger.ID, second.BuyerID)
}

func TestSubmitSurfacesPaymentFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.completeReview(t)
	f.provider.err = errors.New("card declined")

	_, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodPrepaid,
		RequestToken:  "token-fail-0001",
	})
	assert.ErrorIs(t, err, ErrPaymentFailed)

	// Failed payments reserve nothing.
	product, err := f.store.GetProduct(f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestReviewFreezesCartSnapshot(t *testing.T) {
	f := newCheckoutFixture(t)
	f.completeReview(t)

	// Cart edits after review do not leak into the submitted order.
	_, err := f.store.WithCart(f.session, func(cart *models.Cart) error {
		cart.Add(f.product)
		return nil
	})
	require.NoError(t, err)

	order, err := f.service.Submit(context.Background(), f.session, f.buyer.ID, &SubmitRequest{
		PaymentMethod: models.PaymentMethodCOD,
		RequestToken:  "token-snap-0001",
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 499*2.0, order.Total)
}

func TestSandboxProviderHonorsContext(t *testing.T) {
	provider := NewSandboxPaymentProvider(config.CheckoutConfig{
		Currency:       "INR",
		PaymentLatency: time.Minute,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Collect(ctx, 100, "INR")
	assert.ErrorIs(t, err, context.Canceled)
}
