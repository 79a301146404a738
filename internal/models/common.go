// internal/models/common.go
package models

// Enums
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleFarmer   UserRole = "farmer"
	UserRoleAdmin    UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusCODPending     OrderStatus = "cod_pending"
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRefunded       OrderStatus = "refunded"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled || s == OrderStatusRefunded
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCODPending, OrderStatusPlaced,
		OrderStatusPaid, OrderStatusProcessing, OrderStatusPacked,
		OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodPrepaid PaymentMethod = "prepaid"
)

type BatchStage string

const (
	BatchStageSpawnRun   BatchStage = "spawn_run"
	BatchStagePinning    BatchStage = "pinning"
	BatchStageFruiting   BatchStage = "fruiting"
	BatchStageHarvesting BatchStage = "harvesting"
)

// batchStageOrder fixes the monotonic cultivation lifecycle.
var batchStageOrder = []BatchStage{
	BatchStageSpawnRun,
	BatchStagePinning,
	BatchStageFruiting,
	BatchStageHarvesting,
}

// StageIndex returns the position of a stage in the lifecycle, or -1 for an
// unknown stage.
func StageIndex(stage BatchStage) int {
	for i, s := range batchStageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

type BatchHealth string

const (
	BatchHealthHealthy  BatchHealth = "healthy"
	BatchHealthWarning  BatchHealth = "warning"
	BatchHealthCritical BatchHealth = "critical"
)
