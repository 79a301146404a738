// internal/services/admin_service.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

type AdminService struct {
	store *store.Store
}

func NewAdminService(s *store.Store) *AdminService {
	return &AdminService{store: s}
}

// DashboardStats is the admin overview: storefront totals plus revenue
// across non-cancelled orders.
type DashboardStats struct {
	TotalUsers      int     `json:"total_users"`
	TotalFarmers    int     `json:"total_farmers"`
	TotalProducts   int     `json:"total_products"`
	PendingProducts int     `json:"pending_products"`
	TotalOrders     int     `json:"total_orders"`
	OpenOrders      int     `json:"open_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}

func (s *AdminService) GetDashboardStats() DashboardStats {
	stats := DashboardStats{}

	for _, u := range s.store.ListUsers() {
		stats.TotalUsers++
		if u.Role == models.UserRoleFarmer {
			stats.TotalFarmers++
		}
	}

	for _, p := range s.store.ListProducts() {
		stats.TotalProducts++
		if !p.IsApproved {
			stats.PendingProducts++
		}
	}

	for _, o := range s.store.ListOrders() {
		stats.TotalOrders++
		if !o.Status.IsTerminal() {
			stats.OpenOrders++
		}
		if o.Status != models.OrderStatusCancelled && o.Status != models.OrderStatusRefunded {
			stats.TotalRevenue += o.Total
		}
	}

	return stats
}

func (s *AdminService) ListUsers(params utils.PaginationParams) ([]models.User, int64) {
	return utils.Paginate(s.store.ListUsers(), params)
}

// SetUserStatus suspends or reactivates an account. Admin accounts cannot
// suspend themselves.
func (s *AdminService) SetUserStatus(adminID, userID uuid.UUID, status models.UserStatus) (*models.User, error) {
	if adminID == userID && status == models.UserStatusSuspended {
		return nil, errors.New("cannot suspend your own account")
	}
	if status != models.UserStatusActive && status != models.UserStatusSuspended {
		return nil, errors.New("unknown user status")
	}

	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"admin_id": adminID,
		"user_id":  userID,
		"status":   status,
	}).Info("User status changed")

	return &user, nil
}

// ListPendingProducts returns farmer listings awaiting approval.
func (s *AdminService) ListPendingProducts() []models.Product {
	var pending []models.Product
	for _, p := range s.store.ListProducts() {
		if !p.IsApproved {
			pending = append(pending, p)
		}
	}
	return pending
}

// SetProductApproval approves or rejects a listing. Rejected products stay
// in the seller's inventory but never reach the storefront.
func (s *AdminService) SetProductApproval(productID uuid.UUID, approved bool) (*models.Product, error) {
	var updated models.Product
	err := s.store.UpdateProduct(productID, func(p *models.Product) error {
		p.IsApproved = approved
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *AdminService) ListOrders(params utils.PaginationParams) ([]models.Order, int64) {
	return utils.Paginate(s.store.ListOrders(), params)
}
