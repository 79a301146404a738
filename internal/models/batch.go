// internal/models/batch.go
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrStageRegression = errors.New("batch stage cannot move backwards")

type SensorReading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	CO2         float64   `json:"co2"`
}

// CultivationBatch is exclusively owned by its farmer. Readings form a
// rolling window: the oldest reading is dropped once capacity is reached.
type CultivationBatch struct {
	ID                   string          `json:"id"`
	FarmerID             uuid.UUID       `json:"farmer_id"`
	Name                 string          `json:"name"`
	Species              string          `json:"species"`
	Location             string          `json:"location"`
	Notes                string          `json:"notes,omitempty"`
	Stage                BatchStage      `json:"stage"`
	Health               BatchHealth     `json:"health"`
	StartDate            time.Time       `json:"start_date"`
	EstimatedHarvestDate time.Time       `json:"estimated_harvest_date"`
	Readings             []SensorReading `json:"readings"`
}

// AdvanceStage moves the batch to a later lifecycle stage. The lifecycle is
// monotonic: spawn run, pinning, fruiting, harvesting.
func (b *CultivationBatch) AdvanceStage(stage BatchStage) error {
	target := StageIndex(stage)
	if target == -1 {
		return errors.New("unknown batch stage")
	}
	if target <= StageIndex(b.Stage) {
		return ErrStageRegression
	}
	b.Stage = stage
	return nil
}

// AppendReading inserts a reading, evicting the oldest once the window holds
// capacity entries.
func (b *CultivationBatch) AppendReading(r SensorReading, capacity int) {
	b.Readings = append(b.Readings, r)
	if capacity > 0 && len(b.Readings) > capacity {
		b.Readings = b.Readings[len(b.Readings)-capacity:]
	}
}

// LatestReading returns the newest reading, or nil if none exist yet.
func (b *CultivationBatch) LatestReading() *SensorReading {
	if len(b.Readings) == 0 {
		return nil
	}
	return &b.Readings[len(b.Readings)-1]
}
