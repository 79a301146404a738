// internal/services/batch_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

var ErrNotBatchOwner = errors.New("batch belongs to another farmer")

// BatchService manages cultivation batches. A batch is visible to and
// mutable by its owning farmer only; admins have no special access here.
type BatchService struct {
	store     *store.Store
	telemetry *TelemetryService
}

type CreateBatchRequest struct {
	Name                 string `json:"name" validate:"required,min=3,max=100"`
	Species              string `json:"species" validate:"required"`
	Location             string `json:"location" validate:"required"`
	Notes                string `json:"notes,omitempty"`
	EstimatedHarvestDays int    `json:"estimated_harvest_days" validate:"required,min=1,max=365"`
}

func NewBatchService(s *store.Store, telemetry *TelemetryService) *BatchService {
	return &BatchService{store: s, telemetry: telemetry}
}

func (s *BatchService) CreateBatch(farmerID uuid.UUID, req *CreateBatchRequest) (*models.CultivationBatch, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	suffix, err := utils.GenerateRandomString(4)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	batch := models.CultivationBatch{
		ID:                   "B-" + suffix,
		FarmerID:             farmerID,
		Name:                 req.Name,
		Species:              req.Species,
		Location:             req.Location,
		Notes:                req.Notes,
		Stage:                models.BatchStageSpawnRun,
		Health:               models.BatchHealthHealthy,
		StartDate:            now,
		EstimatedHarvestDate: now.AddDate(0, 0, req.EstimatedHarvestDays),
	}
	s.store.SaveBatch(batch)
	return &batch, nil
}

func (s *BatchService) GetBatch(batchID string, farmerID uuid.UUID) (*models.CultivationBatch, error) {
	batch, err := s.store.GetBatch(batchID)
	if err != nil {
		return nil, err
	}
	if batch.FarmerID != farmerID {
		return nil, ErrNotBatchOwner
	}
	return &batch, nil
}

func (s *BatchService) ListBatches(farmerID uuid.UUID) []models.CultivationBatch {
	return s.store.ListBatchesByFarmer(farmerID)
}

// AdvanceStage moves the batch forward through the cultivation lifecycle.
// Regressions are rejected.
func (s *BatchService) AdvanceStage(batchID string, farmerID uuid.UUID, stage models.BatchStage) (*models.CultivationBatch, error) {
	updated, err := s.store.UpdateBatch(batchID, func(b *models.CultivationBatch) error {
		if b.FarmerID != farmerID {
			return ErrNotBatchOwner
		}
		return b.AdvanceStage(stage)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// StartMonitor begins the live sensor simulation for a batch the farmer
// owns.
func (s *BatchService) StartMonitor(batchID string, farmerID uuid.UUID) error {
	batch, err := s.store.GetBatch(batchID)
	if err != nil {
		return err
	}
	if batch.FarmerID != farmerID {
		return ErrNotBatchOwner
	}
	return s.telemetry.Start(batchID)
}

func (s *BatchService) StopMonitor(batchID string, farmerID uuid.UUID) error {
	batch, err := s.store.GetBatch(batchID)
	if err != nil {
		return err
	}
	if batch.FarmerID != farmerID {
		return ErrNotBatchOwner
	}
	s.telemetry.Stop(batchID)
	return nil
}

// BatchReadings is the monitoring payload: the rolling reading window plus
// the stateless threshold flags for the latest sample.
type BatchReadings struct {
	BatchID             string                 `json:"batch_id"`
	Monitoring          bool                   `json:"monitoring"`
	Health              models.BatchHealth     `json:"health"`
	Readings            []models.SensorReading `json:"readings"`
	TemperatureCritical bool                   `json:"temperature_critical"`
	HumidityCritical    bool                   `json:"humidity_critical"`
}

func (s *BatchService) GetReadings(batchID string, farmerID uuid.UUID) (*BatchReadings, error) {
	batch, err := s.GetBatch(batchID, farmerID)
	if err != nil {
		return nil, err
	}

	result := &BatchReadings{
		BatchID:    batch.ID,
		Monitoring: s.telemetry.IsRunning(batch.ID),
		Health:     EvaluateHealth(batch),
		Readings:   batch.Readings,
	}
	if latest := batch.LatestReading(); latest != nil {
		result.TemperatureCritical = TemperatureCritical(*latest)
		result.HumidityCritical = HumidityCritical(*latest)
	}
	return result, nil
}
