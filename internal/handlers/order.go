// internal/handlers/order.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/humbleetrees/storefront-backend/internal/i18n"
	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/services"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func callerRole(c *gin.Context) models.UserRole {
	roleStr, _ := utils.GetUserRoleFromContext(c)
	return models.UserRole(roleStr)
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	orders := h.orderService.ListBuyerOrders(userID)
	utils.SuccessResponse(c, gin.H{"orders": orders})
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	tracking, err := h.orderService.GetOrder(c.Param("id"), userID, callerRole(c))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrNotOrderParty):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"tracking": tracking})
}

// PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), err.Error())
		return
	}

	status := models.OrderStatus(req.Status)
	if !status.IsValid() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "status"), nil)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Param("id"), userID, callerRole(c), status)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrNotOrderParty):
			utils.ForbiddenResponse(c, err.Error())
		case errors.Is(err, models.ErrOrderTerminal):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderTerminal))
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrNotOrderParty):
			utils.ForbiddenResponse(c, err.Error())
		case errors.Is(err, models.ErrOrderTerminal):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderTerminal))
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderStatusUpdated),
		"order":   order,
	})
}

// GET /farmer/orders
func (h *OrderHandler) ListSellerOrders(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	orders := h.orderService.ListSellerOrders(userID)
	utils.SuccessResponse(c, gin.H{"orders": orders})
}
