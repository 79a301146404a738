// internal/handlers/checkout.go
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

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
}

func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// POST /checkout/address
func (h *CheckoutHandler) SelectAddress(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	key, ok := middleware.GetSessionKey(c)
	if !ok {
		utils.InternalErrorResponse(c, "session not initialized")
		return
	}

	var req struct {
		AddressID string `json:"address_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "address_id"), err.Error())
		return
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "address_id"), nil)
		return
	}

	if err := h.checkoutService.SelectAddress(key, userID, addressID); err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCartEmpty), nil)
		case errors.Is(err, store.ErrAddressNotFound):
			utils.NotFoundResponse(c, "address")
		case errors.Is(err, services.ErrNotAddressOwner):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCheckoutAddressSet),
	})
}

// GET /checkout/review
func (h *CheckoutHandler) Review(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	key, ok := middleware.GetSessionKey(c)
	if !ok {
		utils.InternalErrorResponse(c, "session not initialized")
		return
	}

	review, err := h.checkoutService.Review(key)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoCheckout):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCheckoutNoSession), nil)
		case errors.Is(err, services.ErrStepOutOfOrder):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCheckoutStepOutOfOrder), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"review": review})
}

// POST /checkout/submit
func (h *CheckoutHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	key, ok := middleware.GetSessionKey(c)
	if !ok {
		utils.InternalErrorResponse(c, "session not initialized")
		return
	}

	var req services.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.checkoutService.Submit(c.Request.Context(), key, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoCheckout):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCheckoutNoSession), nil)
		case errors.Is(err, services.ErrStepOutOfOrder):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCheckoutStepOutOfOrder), nil)
		case errors.Is(err, services.ErrInsufficientStock):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, services.ErrPaymentFailed):
			utils.ErrorResponse(c, http.StatusPaymentRequired, "PAYMENT_FAILED", i18n.T(lang, i18n.KeyPaymentFailed), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":        i18n.T(lang, i18n.KeyOrderPlaced),
		"order":          order,
		"progress_index": models.ProgressIndex(order.Status),
		"progress_steps": models.ProgressStepCount,
	})
}
