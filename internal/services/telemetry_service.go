// internal/services/telemetry_service.go
package services

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/humbleetrees/storefront-backend/internal/config"
	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
)

// Per-tick drift bounds and clamps for the simulated sensors.
const (
	tempDeltaMax     = 0.25
	humidityDeltaMax = 1.0
	co2DeltaMax      = 10.0
	humidityMin      = 0.0
	humidityMax      = 100.0
	co2Floor         = 400.0
)

// Grow-room comfort thresholds.
const (
	tempCriticalLow  = 15.0
	tempCriticalHigh = 28.0
	humCriticalLow   = 70.0
)

var ErrMonitorRunning = errors.New("sensor monitor already running for this batch")

// NextReading is the pure simulation step: it perturbs each channel by an
// independent bounded delta from the previous reading. Humidity is clamped
// to [0,100] and CO2 never drops below 400ppm.
func NextReading(prev models.SensorReading, rng *rand.Rand, now time.Time) models.SensorReading {
	return models.SensorReading{
		Timestamp:   now,
		Temperature: prev.Temperature + (rng.Float64()-0.5)*2*tempDeltaMax,
		Humidity:    clamp(prev.Humidity+(rng.Float64()-0.5)*2*humidityDeltaMax, humidityMin, humidityMax),
		CO2:         maxFloat(co2Floor, prev.CO2+(rng.Float64()-0.5)*2*co2DeltaMax),
	}
}

// TemperatureCritical reports whether a reading is outside the tolerable
// grow range. Threshold checks are stateless and never feed back into the
// simulation.
func TemperatureCritical(r models.SensorReading) bool {
	return r.Temperature < tempCriticalLow || r.Temperature > tempCriticalHigh
}

func HumidityCritical(r models.SensorReading) bool {
	return r.Humidity < humCriticalLow
}

// EvaluateHealth derives the status label shown for a batch from its latest
// reading, falling back to the recorded health when nothing is critical.
func EvaluateHealth(batch *models.CultivationBatch) models.BatchHealth {
	latest := batch.LatestReading()
	if latest == nil {
		return batch.Health
	}
	if TemperatureCritical(*latest) || HumidityCritical(*latest) {
		return models.BatchHealthCritical
	}
	if batch.Health == models.BatchHealthWarning {
		return models.BatchHealthWarning
	}
	return models.BatchHealthHealthy
}

type monitor struct {
	stop chan struct{}
	done chan struct{}
}

// TelemetryService runs one simulation loop per actively monitored batch.
// Each loop ticks on a fixed interval, appends the next reading to the
// batch's rolling window, and stops cleanly: after Stop returns, no further
// mutation happens for that batch.
type TelemetryService struct {
	store *store.Store
	cfg   config.TelemetryConfig

	mu       sync.Mutex
	monitors map[string]*monitor
	newRand  func() *rand.Rand
}

func NewTelemetryService(s *store.Store, cfg config.TelemetryConfig) *TelemetryService {
	return &TelemetryService{
		store:    s,
		cfg:      cfg,
		monitors: make(map[string]*monitor),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Start begins the simulation loop for a batch. Starting an already
// monitored batch is an error rather than a second loop.
func (s *TelemetryService) Start(batchID string) error {
	if _, err := s.store.GetBatch(batchID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.monitors[batchID]; running {
		return ErrMonitorRunning
	}

	m := &monitor{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	s.monitors[batchID] = m

	go s.run(batchID, m)

	logrus.WithField("batch_id", batchID).Info("Sensor monitor started")
	return nil
}

// Stop cancels the batch's loop and waits for the final tick, if any, to
// land before returning. Stopping an unmonitored batch is a no-op.
func (s *TelemetryService) Stop(batchID string) {
	s.mu.Lock()
	m, ok := s.monitors[batchID]
	if ok {
		delete(s.monitors, batchID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	close(m.stop)
	<-m.done

	logrus.WithField("batch_id", batchID).Info("Sensor monitor stopped")
}

// StopAll shuts down every running monitor, used on server shutdown.
func (s *TelemetryService) StopAll() {
	s.mu.Lock()
	monitors := s.monitors
	s.monitors = make(map[string]*monitor)
	s.mu.Unlock()

	for id, m := range monitors {
		close(m.stop)
		<-m.done
		logrus.WithField("batch_id", id).Info("Sensor monitor stopped")
	}
}

// IsRunning reports whether a batch currently has a live monitor.
func (s *TelemetryService) IsRunning(batchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, running := s.monitors[batchID]
	return running
}

func (s *TelemetryService) run(batchID string, m *monitor) {
	defer close(m.done)

	rng := s.newRand()
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			if err := s.tick(batchID, rng, now); err != nil {
				logrus.WithError(err).WithField("batch_id", batchID).
					Warn("Sensor tick failed, stopping monitor")
				s.mu.Lock()
				delete(s.monitors, batchID)
				s.mu.Unlock()
				return
			}
		}
	}
}

// tick advances the batch by one simulated reading under the store lock.
func (s *TelemetryService) tick(batchID string, rng *rand.Rand, now time.Time) error {
	_, err := s.store.UpdateBatch(batchID, func(b *models.CultivationBatch) error {
		prev := b.LatestReading()
		if prev == nil {
			// A batch with no history starts from nominal conditions.
			b.AppendReading(models.SensorReading{
				Timestamp:   now,
				Temperature: 22,
				Humidity:    85,
				CO2:         600,
			}, s.cfg.ReadingWindow)
			return nil
		}
		b.AppendReading(NextReading(*prev, rng, now), s.cfg.ReadingWindow)
		b.Health = EvaluateHealth(b)
		return nil
	})
	return err
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
