// internal/services/notification_service.go
package services

import (
	"github.com/sirupsen/logrus"

	"github.com/humbleetrees/storefront-backend/internal/models"
	"github.com/humbleetrees/storefront-backend/internal/store"
)

// NotificationService fans order events out to the interested parties. With
// no delivery channel configured it records structured log entries, which is
// all the demo deployment needs.
type NotificationService struct {
	store *store.Store
}

func NewNotificationService(s *store.Store) *NotificationService {
	return &NotificationService{store: s}
}

func (s *NotificationService) SendOrderConfirmation(order *models.Order) {
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"buyer_id": order.BuyerID,
		"total":    order.Total,
	}).Info("Order confirmation notification")
}

func (s *NotificationService) SendSaleNotification(order *models.Order) {
	for _, sellerID := range order.SellerIDs() {
		seller, err := s.store.GetUser(sellerID)
		if err != nil {
			logrus.WithError(err).WithField("seller_id", sellerID).
				Warn("Skipping sale notification for unknown seller")
			continue
		}
		logrus.WithFields(logrus.Fields{
			"order_id":  order.ID,
			"seller_id": seller.ID,
		}).Info("New sale notification")
	}
}

func (s *NotificationService) SendStatusUpdate(order *models.Order) {
	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"buyer_id": order.BuyerID,
		"status":   order.Status,
	}).Info("Order status notification")
}
