// internal/services/payment_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/humbleetrees/storefront-backend/internal/config"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

// PaymentResult is what the hosted checkout collaborator reports back after
// a charge attempt.
type PaymentResult struct {
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	PaidAt    time.Time `json:"paid_at"`
}

// PaymentProvider is the external payment collaborator. Its internals are
// opaque and untrusted: callers hand it an amount and a currency and get a
// reference back, nothing more.
type PaymentProvider interface {
	Collect(ctx context.Context, amount float64, currency string) (PaymentResult, error)
}

// SandboxPaymentProvider stands in for the hosted widget. It waits for the
// configured latency, honoring context cancellation, and then succeeds with
// a fabricated reference. There is no real charge anywhere in this system.
type SandboxPaymentProvider struct {
	latency time.Duration
}

func NewSandboxPaymentProvider(cfg config.CheckoutConfig) *SandboxPaymentProvider {
	return &SandboxPaymentProvider{latency: cfg.PaymentLatency}
}

func (p *SandboxPaymentProvider) Collect(ctx context.Context, amount float64, currency string) (PaymentResult, error) {
	if p.latency > 0 {
		select {
		case <-time.After(p.latency):
		case <-ctx.Done():
			return PaymentResult{}, ctx.Err()
		}
	}

	ref, err := utils.GeneratePaymentRef()
	if err != nil {
		return PaymentResult{}, err
	}

	logrus.WithFields(logrus.Fields{
		"reference": ref,
		"amount":    amount,
		"currency":  currency,
	}).Info("Sandbox payment collected")

	return PaymentResult{
		Reference: ref,
		Amount:    amount,
		Currency:  currency,
		PaidAt:    time.Now(),
	}, nil
}
