// internal/handlers/farmer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/humbleetrees/storefront-backend/internal/services"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

// FarmerHandler serves the farmer dashboard, which aggregates the seller's
// listings, order activity and cultivation batches.
type FarmerHandler struct {
	orderService *services.OrderService
	batchService *services.BatchService
}

func NewFarmerHandler(orderService *services.OrderService, batchService *services.BatchService) *FarmerHandler {
	return &FarmerHandler{
		orderService: orderService,
		batchService: batchService,
	}
}

// GET /farmer/dashboard
func (h *FarmerHandler) GetDashboard(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{
		"summary": h.orderService.GetSellerSummary(userID),
		"batches": h.batchService.ListBatches(userID),
	})
}
