// internal/services/user_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

type UserService struct {
	store *store.Store
}

type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone string `json:"phone,omitempty" validate:"omitempty,phone"`
}

type CreateAddressRequest struct {
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" validate:"required,phone"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required,pincode"`
	Landmark     string `json:"landmark,omitempty"`
	IsDefault    bool   `json:"is_default"`
}

func NewUserService(s *store.Store) *UserService {
	return &UserService{store: s}
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if err := s.store.SaveUser(user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ListAddresses(userID uuid.UUID) []models.Address {
	return s.store.ListAddressesByUser(userID)
}

// CreateAddress saves a new address for the user. A first address becomes
// the default automatically.
func (s *UserService) CreateAddress(userID uuid.UUID, req *CreateAddressRequest) (*models.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.store.GetUser(userID); err != nil {
		return nil, err
	}

	isDefault := req.IsDefault
	if len(s.store.ListAddressesByUser(userID)) == 0 {
		isDefault = true
	}

	address := models.Address{
		ID:           uuid.New(),
		UserID:       userID,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Landmark:     req.Landmark,
		IsDefault:    isDefault,
	}
	s.store.SaveAddress(address)
	return &address, nil
}
