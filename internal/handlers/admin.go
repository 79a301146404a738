// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/i18n"
	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/services"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"stats": h.adminService.GetDashboardStats()})
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	users, total := h.adminService.ListUsers(params)
	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// PUT /admin/users/:id/status
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := parseUserID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=active suspended"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), err.Error())
		return
	}

	user, err := h.adminService.SetUserStatus(adminID, userID, models.UserStatus(req.Status))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			utils.NotFoundResponse(c, "user")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
		"user":    user,
	})
}

// GET /admin/products/pending
func (h *AdminHandler) ListPendingProducts(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"products": h.adminService.ListPendingProducts()})
}

// PUT /admin/products/:id/approval
func (h *AdminHandler) SetProductApproval(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req struct {
		Approved *bool `json:"approved" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "approved"), err.Error())
		return
	}

	product, err := h.adminService.SetProductApproval(productID, *req.Approved)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	key := i18n.KeyProductRejected
	if *req.Approved {
		key = i18n.KeyProductApproved
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, key),
		"product": product,
	})
}

// GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	orders, total := h.adminService.ListOrders(params)
	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}
