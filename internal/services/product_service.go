// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

var ErrNotProductOwner = errors.New("unauthorized to manage this product")

type ProductService struct {
	store *store.Store
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=3,max=255"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required,min=10"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	OldPrice    *float64 `json:"old_price,omitempty" validate:"omitempty,gt=0"`
	Stock       int      `json:"stock" validate:"min=0"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=10"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	OldPrice    *float64 `json:"old_price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	ImageURL    string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	SellerID *uuid.UUID
	PriceMin *float64
	PriceMax *float64
	InStock  *bool
	// Unapproved products are listed only for admin callers.
	IncludeUnapproved bool
}

func NewProductService(s *store.Store) *ProductService {
	return &ProductService{store: s}
}

// CreateProduct adds a product for a farmer. New products start unapproved
// and stay off the storefront until an admin approves them.
func (s *ProductService) CreateProduct(sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	seller, err := s.store.GetUser(sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Role != models.UserRoleFarmer && seller.Role != models.UserRoleAdmin {
		return nil, errors.New("only farmers can list products")
	}

	now := time.Now()
	product := models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		SellerID:    sellerID,
		SellerName:  seller.Name,
		IsApproved:  seller.Role == models.UserRoleAdmin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.store.SaveProduct(product)
	return &product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	product, err := s.store.GetProduct(id)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(id, sellerID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var updated models.Product
	err := s.store.UpdateProduct(id, func(p *models.Product) error {
		if p.SellerID != sellerID {
			return ErrNotProductOwner
		}
		if req.Name != "" {
			p.Name = req.Name
		}
		if req.Category != "" {
			p.Category = req.Category
		}
		if req.Description != "" {
			p.Description = req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.OldPrice != nil {
			p.OldPrice = req.OldPrice
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.ImageURL != "" {
			p.ImageURL = req.ImageURL
		}
		p.UpdatedAt = time.Now()
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProductService) DeleteProduct(id, sellerID uuid.UUID) error {
	product, err := s.store.GetProduct(id)
	if err != nil {
		return err
	}
	if product.SellerID != sellerID {
		return ErrNotProductOwner
	}
	return s.store.DeleteProduct(id)
}

// SearchProducts filters, sorts and pages the catalog in memory.
func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	var matched []models.Product
	for _, p := range s.store.ListProducts() {
		if !params.IncludeUnapproved && !p.IsApproved {
			continue
		}
		if params.SellerID != nil && p.SellerID != *params.SellerID {
			continue
		}
		if params.Category != "" && !strings.EqualFold(p.Category, params.Category) {
			continue
		}
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		if params.PriceMin != nil && p.Price < *params.PriceMin {
			continue
		}
		if params.PriceMax != nil && p.Price > *params.PriceMax {
			continue
		}
		if params.InStock != nil && *params.InStock && !p.InStock() {
			continue
		}
		matched = append(matched, p)
	}

	page, total := utils.Paginate(matched, params.PaginationParams)
	return page, total, nil
}

// GetSellerProducts lists everything a farmer has listed, approved or not.
func (s *ProductService) GetSellerProducts(sellerID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	return s.SearchProducts(ProductSearchParams{
		PaginationParams:  params,
		SellerID:          &sellerID,
		IncludeUnapproved: true,
	})
}

// GetPopularProducts ranks the approved catalog by rating and review count.
func (s *ProductService) GetPopularProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	for _, p := range s.store.ListProducts() {
		if p.IsApproved {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Rating != products[j].Rating {
			return products[i].Rating > products[j].Rating
		}
		return products[i].ReviewCount > products[j].ReviewCount
	})
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

// Categories returns the distinct categories present in the approved catalog.
func (s *ProductService) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range s.store.ListProducts() {
		if p.IsApproved && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories
}
