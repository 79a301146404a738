// internal/store/store.go
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/models"
)

// Sentinel errors returned on lookup misses. Callers decide the fallback
// policy; the store never substitutes default records.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrBatchNotFound   = errors.New("batch not found")
	ErrEmailTaken      = errors.New("email already registered")
)

// Store holds all application state in process memory. Each collection is
// guarded by its own RWMutex; carts are additionally keyed per session so
// that no state is ever shared across browsing sessions.
type Store struct {
	usersMu sync.RWMutex
	users   map[uuid.UUID]*models.User

	productsMu sync.RWMutex
	products   map[uuid.UUID]*models.Product

	ordersMu sync.RWMutex
	orders   map[string]*models.Order

	addressesMu sync.RWMutex
	addresses   map[uuid.UUID]*models.Address

	batchesMu sync.RWMutex
	batches   map[string]*models.CultivationBatch

	cartsMu sync.Mutex
	carts   map[string]*models.Cart
}

func New() *Store {
	return &Store{
		users:     make(map[uuid.UUID]*models.User),
		products:  make(map[uuid.UUID]*models.Product),
		orders:    make(map[string]*models.Order),
		addresses: make(map[uuid.UUID]*models.Address),
		batches:   make(map[string]*models.CultivationBatch),
		carts:     make(map[string]*models.Cart),
	}
}

// Users

func (s *Store) GetUser(id uuid.UUID) (models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return *u, nil
}

func (s *Store) GetUserByEmail(email string) (models.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return *u, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (s *Store) SaveUser(u models.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	for _, existing := range s.users {
		if existing.ID != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	s.users[u.ID] = &u
	return nil
}

func (s *Store) ListUsers() []models.User {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users
}

// Products

func (s *Store) GetProduct(id uuid.UUID) (models.Product, error) {
	s.productsMu.RLock()
	defer s.productsMu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return *p, nil
}

func (s *Store) SaveProduct(p models.Product) {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	s.products[p.ID] = &p
}

func (s *Store) DeleteProduct(id uuid.UUID) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) ListProducts() []models.Product {
	s.productsMu.RLock()
	defer s.productsMu.RUnlock()
	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.Before(products[j].CreatedAt) })
	return products
}

// UpdateProduct applies fn to the stored product under the write lock, so
// read-modify-write sequences (stock adjustments) stay atomic.
func (s *Store) UpdateProduct(id uuid.UUID, fn func(*models.Product) error) error {
	s.productsMu.Lock()
	defer s.productsMu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrProductNotFound
	}
	return fn(p)
}

// Orders

func (s *Store) GetOrder(id string) (models.Order, error) {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (s *Store) SaveOrder(o models.Order) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	c := cloneOrder(&o)
	s.orders[o.ID] = &c
}

// UpdateOrder applies fn to the stored order under the write lock. The
// callback owns the only reference, which keeps the append-only timeline
// free of interleaved writers.
func (s *Store) UpdateOrder(id string, fn func(*models.Order) error) (models.Order, error) {
	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	if err := fn(o); err != nil {
		return models.Order{}, err
	}
	return cloneOrder(o), nil
}

func (s *Store) ListOrders() []models.Order {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()
	return s.collectOrders(func(*models.Order) bool { return true })
}

func (s *Store) ListOrdersByBuyer(buyerID uuid.UUID) []models.Order {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()
	return s.collectOrders(func(o *models.Order) bool { return o.BuyerID == buyerID })
}

func (s *Store) ListOrdersBySeller(sellerID uuid.UUID) []models.Order {
	s.ordersMu.RLock()
	defer s.ordersMu.RUnlock()
	return s.collectOrders(func(o *models.Order) bool {
		for _, id := range o.SellerIDs() {
			if id == sellerID {
				return true
			}
		}
		return false
	})
}

func (s *Store) collectOrders(match func(*models.Order) bool) []models.Order {
	var orders []models.Order
	for _, o := range s.orders {
		if match(o) {
			orders = append(orders, cloneOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].PlacedAt.After(orders[j].PlacedAt) })
	return orders
}

func cloneOrder(o *models.Order) models.Order {
	c := *o
	c.Items = append([]models.CartItem(nil), o.Items...)
	c.Timeline = append([]models.TimelineEntry(nil), o.Timeline...)
	return c
}

// Addresses

func (s *Store) GetAddress(id uuid.UUID) (models.Address, error) {
	s.addressesMu.RLock()
	defer s.addressesMu.RUnlock()
	a, ok := s.addresses[id]
	if !ok {
		return models.Address{}, ErrAddressNotFound
	}
	return *a, nil
}

func (s *Store) SaveAddress(a models.Address) {
	s.addressesMu.Lock()
	defer s.addressesMu.Unlock()
	if a.IsDefault {
		for _, existing := range s.addresses {
			if existing.UserID == a.UserID {
				existing.IsDefault = false
			}
		}
	}
	s.addresses[a.ID] = &a
}

func (s *Store) ListAddressesByUser(userID uuid.UUID) []models.Address {
	s.addressesMu.RLock()
	defer s.addressesMu.RUnlock()
	var addresses []models.Address
	for _, a := range s.addresses {
		if a.UserID == userID {
			addresses = append(addresses, *a)
		}
	}
	sort.Slice(addresses, func(i, j int) bool {
		if addresses[i].IsDefault != addresses[j].IsDefault {
			return addresses[i].IsDefault
		}
		return addresses[i].ID.String() < addresses[j].ID.String()
	})
	return addresses
}

// Batches

func (s *Store) GetBatch(id string) (models.CultivationBatch, error) {
	s.batchesMu.RLock()
	defer s.batchesMu.RUnlock()
	b, ok := s.batches[id]
	if !ok {
		return models.CultivationBatch{}, ErrBatchNotFound
	}
	return cloneBatch(b), nil
}

func (s *Store) SaveBatch(b models.CultivationBatch) {
	s.batchesMu.Lock()
	defer s.batchesMu.Unlock()
	c := cloneBatch(&b)
	s.batches[b.ID] = &c
}

// UpdateBatch applies fn to the stored batch under the write lock. The
// telemetry monitor mutates readings exclusively through this path.
func (s *Store) UpdateBatch(id string, fn func(*models.CultivationBatch) error) (models.CultivationBatch, error) {
	s.batchesMu.Lock()
	defer s.batchesMu.Unlock()
	b, ok := s.batches[id]
	if !ok {
		return models.CultivationBatch{}, ErrBatchNotFound
	}
	if err := fn(b); err != nil {
		return models.CultivationBatch{}, err
	}
	return cloneBatch(b), nil
}

func (s *Store) ListBatchesByFarmer(farmerID uuid.UUID) []models.CultivationBatch {
	s.batchesMu.RLock()
	defer s.batchesMu.RUnlock()
	var batches []models.CultivationBatch
	for _, b := range s.batches {
		if b.FarmerID == farmerID {
			batches = append(batches, cloneBatch(b))
		}
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].ID < batches[j].ID })
	return batches
}

func cloneBatch(b *models.CultivationBatch) models.CultivationBatch {
	c := *b
	c.Readings = append([]models.SensorReading(nil), b.Readings...)
	return c
}

// Carts

// WithCart runs fn against the session's cart, creating an empty cart on
// first use. The lock is held for the duration of fn, preserving the
// single-writer-at-a-time property per session.
func (s *Store) WithCart(sessionKey string, fn func(*models.Cart) error) (models.Cart, error) {
	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()
	cart, ok := s.carts[sessionKey]
	if !ok {
		cart = models.NewCart(sessionKey)
		s.carts[sessionKey] = cart
	}
	if err := fn(cart); err != nil {
		return models.Cart{}, err
	}
	c := *cart
	c.Items = append([]models.CartItem(nil), cart.Items...)
	return c, nil
}

// DropCart discards a session's cart entirely, used when the session ends.
func (s *Store) DropCart(sessionKey string) {
	s.cartsMu.Lock()
	defer s.cartsMu.Unlock()
	delete(s.carts, sessionKey)
}
