// internal/store/seed.go
package store

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/models"
)

// Fixed ids keep the demo dataset addressable across restarts.
var (
	SeedFarmerID   = uuid.MustParse("0a6f3f5e-9c1d-4f1e-8a6b-111111111111")
	SeedAdminID    = uuid.MustParse("0a6f3f5e-9c1d-4f1e-8a6b-222222222222")
	SeedCustomerID = uuid.MustParse("0a6f3f5e-9c1d-4f1e-8a6b-333333333333")

	SeedFarmerAddressID   = uuid.MustParse("ad0e1f2a-0001-4000-8000-000000000001")
	SeedCustomerAddressID = uuid.MustParse("ad0e1f2a-0001-4000-8000-000000000002")
)

// SeedProductID exposes the stable id of a seeded product slot (1-based),
// mainly for tests and demo tooling.
func SeedProductID(slot int) uuid.UUID {
	return uuidFromSlot(slot)
}

// uuidFromSlot derives a stable product id from a numeric slot.
func uuidFromSlot(slot int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("9e0c%04d-0000-4000-8000-00000000000%d", slot, slot))
}

// Seed loads the demo users, products, addresses, orders and cultivation
// batches. The demo account password is the same for every seeded user.
func Seed(s *Store, readingWindow int) error {
	now := time.Now()

	users := []struct {
		id    uuid.UUID
		name  string
		email string
		phone string
		role  models.UserRole
	}{
		{SeedFarmerID, "Nanda Kumar", "nanda@humbleetrees.in", "9360439995", models.UserRoleFarmer},
		{SeedAdminID, "Admin User", "admin@humbleetrees.in", "", models.UserRoleAdmin},
		{SeedCustomerID, "John Doe", "john@example.com", "9876543210", models.UserRoleCustomer},
	}

	for _, u := range users {
		user := models.User{
			ID:         u.id,
			Name:       u.name,
			Email:      u.email,
			Phone:      u.phone,
			Role:       u.role,
			Status:     models.UserStatusActive,
			IsVerified: true,
			CreatedAt:  now,
		}
		if err := user.SetPassword("GrowMushrooms1!"); err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		if err := s.SaveUser(user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
	}

	s.SaveAddress(models.Address{
		ID:           SeedFarmerAddressID,
		UserID:       SeedFarmerID,
		FullName:     "Nanda Kumar",
		Phone:        "9360439995",
		AddressLine1: "No. 21, Anna Salai",
		City:         "Chennai",
		State:        "Tamil Nadu",
		Pincode:      "600001",
		IsDefault:    true,
	})
	s.SaveAddress(models.Address{
		ID:           SeedCustomerAddressID,
		UserID:       SeedCustomerID,
		FullName:     "John Doe",
		Phone:        "9876543210",
		AddressLine1: "Flat 4B, Green Valley Apts",
		AddressLine2: "OMR Road",
		City:         "Chennai",
		State:        "Tamil Nadu",
		Pincode:      "600097",
		IsDefault:    true,
	})

	oldPrice := func(v float64) *float64 { return &v }
	products := []models.Product{
		{
			ID:          uuidFromSlot(1),
			Name:        "Premium Oyster Mushroom Grow Kit",
			Category:    "Grow Kits",
			Description: "Start growing your own Oyster mushrooms at home. Harvest in just 10 days.",
			Price:       499,
			OldPrice:    oldPrice(699),
			Rating:      4.5,
			ReviewCount: 128,
			Stock:       50,
			SellerID:    SeedFarmerID,
			SellerName:  "Nanda Kumar",
			IsApproved:  true,
		},
		{
			ID:          uuidFromSlot(2),
			Name:        "Dried Shiitake Mushrooms (250g)",
			Category:    "Dried Mushrooms",
			Description: "Sun-dried premium Shiitake mushrooms rich in umami flavor.",
			Price:       350,
			OldPrice:    oldPrice(450),
			Rating:      4.8,
			ReviewCount: 89,
			Stock:       200,
			SellerID:    SeedFarmerID,
			SellerName:  "Nanda Kumar",
			IsApproved:  true,
		},
		{
			ID:          uuidFromSlot(3),
			Name:        "Lion's Mane Extract Powder",
			Category:    "Supplements",
			Description: "Cognitive support supplement made from organic Lion's Mane fruiting bodies.",
			Price:       1200,
			OldPrice:    oldPrice(1500),
			Rating:      4.9,
			ReviewCount: 342,
			Stock:       30,
			SellerID:    SeedAdminID,
			SellerName:  "HumbleeTrees Official",
			IsApproved:  true,
		},
		{
			ID:          uuidFromSlot(4),
			Name:        "Fresh Button Mushrooms (500g)",
			Category:    "Fresh Produce",
			Description: "Farm fresh white button mushrooms, delivered daily from local partners.",
			Price:       120,
			Rating:      4.2,
			ReviewCount: 56,
			Stock:       0,
			SellerID:    SeedFarmerID,
			SellerName:  "Nanda Kumar",
			IsApproved:  true,
		},
		{
			ID:          uuidFromSlot(5),
			Name:        "Reishi Mushroom Tea Bags",
			Category:    "Beverages",
			Description: "Calming Reishi mushroom tea blend for better sleep and immunity.",
			Price:       299,
			Rating:      4.6,
			ReviewCount: 45,
			Stock:       100,
			SellerID:    SeedFarmerID,
			SellerName:  "Nanda Kumar",
			IsApproved:  true,
		},
	}
	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		s.SaveProduct(p)
	}

	rng := rand.New(rand.NewSource(42))
	s.SaveBatch(models.CultivationBatch{
		ID:                   "B-101",
		FarmerID:             SeedFarmerID,
		Name:                 "Blue Oyster - Batch A",
		Species:              "Pleurotus ostreatus",
		Location:             "Zone 1 - Shelf A",
		Notes:                "Looking vigorous, pins started forming yesterday.",
		Stage:                models.BatchStageFruiting,
		Health:               models.BatchHealthHealthy,
		StartDate:            now.AddDate(0, 0, -20),
		EstimatedHarvestDate: now.AddDate(0, 0, 1),
		Readings:             seedReadings(rng, now, readingWindow, 22, 85, 600),
	})
	s.SaveBatch(models.CultivationBatch{
		ID:                   "B-102",
		FarmerID:             SeedFarmerID,
		Name:                 "Lion's Mane - Batch C",
		Species:              "Hericium erinaceus",
		Location:             "Zone 2 - Shelf B",
		Notes:                "Mycelium growth slower than expected.",
		Stage:                models.BatchStageSpawnRun,
		Health:               models.BatchHealthWarning,
		StartDate:            now.AddDate(0, 0, -15),
		EstimatedHarvestDate: now.AddDate(0, 0, 16),
		Readings:             seedReadings(rng, now, readingWindow, 25, 70, 850),
	})

	return seedOrders(s, now)
}

// seedReadings fabricates an hourly history ending now, oscillating around
// the base values.
func seedReadings(rng *rand.Rand, now time.Time, count int, baseTemp, baseHum, baseCO2 float64) []models.SensorReading {
	if count <= 0 {
		count = 24
	}
	readings := make([]models.SensorReading, 0, count)
	for i := 0; i < count; i++ {
		readings = append(readings, models.SensorReading{
			Timestamp:   now.Add(-time.Duration(count-1-i) * time.Hour),
			Temperature: baseTemp + math.Sin(float64(i)/3)*2 + (rng.Float64() - 0.5),
			Humidity:    clamp(baseHum+math.Cos(float64(i)/4)*5+(rng.Float64()-0.5)*2, 0, 100),
			CO2:         math.Max(400, baseCO2+rng.Float64()*50-25),
		})
	}
	return readings
}

func seedOrders(s *Store, now time.Time) error {
	growKit, _ := s.GetProduct(uuidFromSlot(1))
	shiitake, _ := s.GetProduct(uuidFromSlot(2))
	customerAddr, _ := s.GetAddress(SeedCustomerAddressID)

	delivered := models.Order{
		ID:              "ORD-7829",
		BuyerID:         SeedCustomerID,
		BuyerName:       "John Doe",
		Items:           []models.CartItem{{Product: growKit, Quantity: 1, AddedAt: now.AddDate(0, 0, -5)}},
		Total:           growKit.Price,
		Status:          models.OrderStatusPending,
		ShippingAddress: customerAddr,
		PaymentMethod:   models.PaymentMethodPrepaid,
		PlacedAt:        now.AddDate(0, 0, -5),
	}
	delivered.Timeline = []models.TimelineEntry{{Status: models.OrderStatusPending, Timestamp: delivered.PlacedAt}}
	if err := delivered.Transition(models.OrderStatusPaid, delivered.PlacedAt.Add(5*time.Minute)); err != nil {
		return err
	}
	if err := delivered.Transition(models.OrderStatusShipped, delivered.PlacedAt.Add(19*time.Hour)); err != nil {
		return err
	}
	if err := delivered.Transition(models.OrderStatusDelivered, delivered.PlacedAt.Add(43*time.Hour)); err != nil {
		return err
	}
	s.SaveOrder(delivered)

	processing := models.Order{
		ID:              "ORD-8821",
		BuyerID:         SeedCustomerID,
		BuyerName:       "John Doe",
		Items:           []models.CartItem{{Product: shiitake, Quantity: 2, AddedAt: now.AddDate(0, 0, -1)}},
		Total:           shiitake.Price * 2,
		Status:          models.OrderStatusPending,
		ShippingAddress: customerAddr,
		PaymentMethod:   models.PaymentMethodCOD,
		PlacedAt:        now.AddDate(0, 0, -1),
	}
	processing.Timeline = []models.TimelineEntry{{Status: models.OrderStatusPending, Timestamp: processing.PlacedAt}}
	if err := processing.Transition(models.OrderStatusPaid, processing.PlacedAt.Add(5*time.Minute)); err != nil {
		return err
	}
	if err := processing.Transition(models.OrderStatusProcessing, processing.PlacedAt.Add(45*time.Minute)); err != nil {
		return err
	}
	s.SaveOrder(processing)
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
