// internal/store/store_test.go
package store

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humbleetrees/storefront-backend/internal/models"
)

func TestTypedNotFoundErrors(t *testing.T) {
	s := New()

	_, err := s.GetUser(uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.GetProduct(uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = s.GetOrder("ORD-00000")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = s.GetAddress(uuid.New())
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = s.GetBatch("B-000")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestSaveUserRejectsDuplicateEmail(t *testing.T) {
	s := New()
	first := models.User{ID: uuid.New(), Email: "nanda@humbleetrees.in"}
	require.NoError(t, s.SaveUser(first))

	dup := models.User{ID: uuid.New(), Email: "nanda@humbleetrees.in"}
	assert.ErrorIs(t, s.SaveUser(dup), ErrEmailTaken)

	// Re-saving the same account is fine.
	first.Name = "Nanda Kumar"
	assert.NoError(t, s.SaveUser(first))
}

func TestGetReturnsClones(t *testing.T) {
	s := New()
	id := uuid.New()
	s.SaveProduct(models.Product{ID: id, Name: "Reishi Tea", Stock: 10})

	got, err := s.GetProduct(id)
	require.NoError(t, err)
	got.Stock = 0

	again, err := s.GetProduct(id)
	require.NoError(t, err)
	assert.Equal(t, 10, again.Stock)
}

func TestUpdateProductIsAtomic(t *testing.T) {
	s := New()
	id := uuid.New()
	s.SaveProduct(models.Product{ID: id, Name: "Grow Kit", Stock: 100})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.UpdateProduct(id, func(p *models.Product) error {
				p.Stock--
				return nil
			})
		}()
	}
	wg.Wait()

	got, err := s.GetProduct(id)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Stock)
}

func TestWithCartCreatesOnFirstUse(t *testing.T) {
	s := New()

	cart, err := s.WithCart("guest-123", func(*models.Cart) error { return nil })
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "guest-123", cart.SessionKey)
}

func TestWithCartSerializesMutations(t *testing.T) {
	s := New()
	product := models.Product{ID: uuid.New(), Name: "Grow Kit", Price: 499}

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.WithCart("guest-123", func(cart *models.Cart) error {
				cart.Add(product)
				return nil
			})
		}()
	}
	wg.Wait()

	cart, err := s.WithCart("guest-123", func(*models.Cart) error { return nil })
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 25, cart.Items[0].Quantity)
}

func TestDropCart(t *testing.T) {
	s := New()
	_, err := s.WithCart("guest-123", func(cart *models.Cart) error {
		cart.Add(models.Product{ID: uuid.New(), Price: 100})
		return nil
	})
	require.NoError(t, err)

	s.DropCart("guest-123")

	cart, err := s.WithCart("guest-123", func(*models.Cart) error { return nil })
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestSaveAddressKeepsSingleDefault(t *testing.T) {
	s := New()
	user := uuid.New()

	first := models.Address{ID: uuid.New(), UserID: user, City: "Chennai", IsDefault: true}
	second := models.Address{ID: uuid.New(), UserID: user, City: "Madurai", IsDefault: true}
	s.SaveAddress(first)
	s.SaveAddress(second)

	addresses := s.ListAddressesByUser(user)
	require.Len(t, addresses, 2)

	defaults := 0
	for _, a := range addresses {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestListOrdersBySeller(t *testing.T) {
	s := New()
	seller := uuid.New()
	buyer := uuid.New()

	s.SaveOrder(models.Order{
		ID:      "ORD-30001",
		BuyerID: buyer,
		Items: []models.CartItem{
			{Product: models.Product{ID: uuid.New(), SellerID: seller}, Quantity: 1},
		},
	})
	s.SaveOrder(models.Order{
		ID:      "ORD-30002",
		BuyerID: buyer,
		Items: []models.CartItem{
			{Product: models.Product{ID: uuid.New(), SellerID: uuid.New()}, Quantity: 1},
		},
	})

	assert.Len(t, s.ListOrdersBySeller(seller), 1)
	assert.Len(t, s.ListOrdersByBuyer(buyer), 2)
}

func TestSeedLoadsDemoDataset(t *testing.T) {
	s := New()
	require.NoError(t, Seed(s, 24))

	farmer, err := s.GetUser(SeedFarmerID)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleFarmer, farmer.Role)
	assert.NoError(t, farmer.CheckPassword("GrowMushrooms1!"))

	products := s.ListProducts()
	assert.Len(t, products, 5)

	batches := s.ListBatchesByFarmer(SeedFarmerID)
	require.Len(t, batches, 2)
	for _, b := range batches {
		assert.NotEmpty(t, b.Readings)
		assert.LessOrEqual(t, len(b.Readings), 24)
	}

	orders := s.ListOrdersByBuyer(SeedCustomerID)
	assert.Len(t, orders, 2)

	// Seeded order histories went through the same transition checks as
	// live orders: complete timelines, one entry per status.
	delivered, err := s.GetOrder("ORD-7829")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
	require.Len(t, delivered.Timeline, 4)
	assert.Equal(t, models.OrderStatusPending, delivered.Timeline[0].Status)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Timeline[3].Status)

	processing, err := s.GetOrder("ORD-8821")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, processing.Status)
	require.Len(t, processing.Timeline, 3)
}
