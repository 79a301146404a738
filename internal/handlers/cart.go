// internal/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/i18n"
	"github.com/humbleetrees/storefront-backend/internal/middleware"
	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/services"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func sessionKeyOrAbort(c *gin.Context) (string, bool) {
	key, ok := middleware.GetSessionKey(c)
	if !ok {
		utils.InternalErrorResponse(c, "session not initialized")
		return "", false
	}
	return key, true
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	key, ok := sessionKeyOrAbort(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(key)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"cart": cart, "total": cart.Total()})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	key, ok := sessionKeyOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), err.Error())
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), nil)
		return
	}

	cart, err := h.cartService.AddItem(key, productID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			utils.NotFoundResponse(c, "product")
		case errors.Is(err, services.ErrProductUnavailable):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductOutOfStock), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"cart":    cart,
		"total":   cart.Total(),
	})
}

// DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	key, ok := sessionKeyOrAbort(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), nil)
		return
	}

	cart, err := h.cartService.RemoveItem(key, productID)
	if err != nil {
		if errors.Is(err, models.ErrCartItemNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyCartItemNotFound), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemRemoved),
		"cart":    cart,
		"total":   cart.Total(),
	})
}

// PUT /cart/items/:productId
func (h *CartHandler) SetQuantity(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	key, ok := sessionKeyOrAbort(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), nil)
		return
	}

	// Quantity is a pointer so an explicit zero reaches the service and
	// gets the quantity error rather than failing the required binding.
	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "quantity"), err.Error())
		return
	}

	cart, err := h.cartService.SetQuantity(key, productID, *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidQuantity):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartBadQuantity), nil)
		case errors.Is(err, models.ErrCartItemNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyCartItemNotFound), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	key, ok := sessionKeyOrAbort(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Clear(key)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartCleared),
		"cart":    cart,
		"total":   cart.Total(),
	})
}
