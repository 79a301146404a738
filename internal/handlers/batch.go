// internal/handlers/batch.go
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

type BatchHandler struct {
	batchService *services.BatchService
}

func NewBatchHandler(batchService *services.BatchService) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
	}
}

func (h *BatchHandler) respondBatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrBatchNotFound):
		utils.NotFoundResponse(c, "batch")
	case errors.Is(err, services.ErrNotBatchOwner):
		utils.ForbiddenResponse(c, err.Error())
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}

// GET /farmer/batches
func (h *BatchHandler) ListBatches(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	batches := h.batchService.ListBatches(userID)
	utils.SuccessResponse(c, gin.H{"batches": batches})
}

// POST /farmer/batches
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req services.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	batch, err := h.batchService.CreateBatch(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBatchCreated),
		"batch":   batch,
	})
}

// GET /farmer/batches/:id
func (h *BatchHandler) GetBatch(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	batch, err := h.batchService.GetBatch(c.Param("id"), userID)
	if err != nil {
		h.respondBatchError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"batch": batch})
}

// PUT /farmer/batches/:id/stage
func (h *BatchHandler) AdvanceStage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req struct {
		Stage string `json:"stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "stage"), err.Error())
		return
	}

	stage := models.BatchStage(req.Stage)
	if models.StageIndex(stage) < 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "stage"), nil)
		return
	}

	batch, err := h.batchService.AdvanceStage(c.Param("id"), userID, stage)
	if err != nil {
		if errors.Is(err, models.ErrStageRegression) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		h.respondBatchError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBatchStageAdvanced),
		"batch":   batch,
	})
}

// POST /farmer/batches/:id/monitor/start
func (h *BatchHandler) StartMonitor(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.batchService.StartMonitor(c.Param("id"), userID); err != nil {
		if errors.Is(err, services.ErrMonitorRunning) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		h.respondBatchError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBatchMonitorStarted),
	})
}

// POST /farmer/batches/:id/monitor/stop
func (h *BatchHandler) StopMonitor(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.batchService.StopMonitor(c.Param("id"), userID); err != nil {
		h.respondBatchError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBatchMonitorStopped),
	})
}

// GET /farmer/batches/:id/readings
func (h *BatchHandler) GetReadings(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	readings, err := h.batchService.GetReadings(c.Param("id"), userID)
	if err != nil {
		h.respondBatchError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"readings": readings})
}
