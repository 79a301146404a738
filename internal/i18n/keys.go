// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthAccessDenied       = "auth.access_denied"

	// Users and addresses
	KeyUserNotFound    = "user.not_found"
	KeyUserSuspended   = "user.suspended"
	KeyAddressNotFound = "address.not_found"
	KeyAddressCreated  = "address.created"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"
	KeyProductApproved   = "product.approved"
	KeyProductRejected   = "product.rejected"

	// Cart
	KeyCartItemAdded    = "cart.item_added"
	KeyCartItemRemoved  = "cart.item_removed"
	KeyCartCleared      = "cart.cleared"
	KeyCartEmpty        = "cart.empty"
	KeyCartItemNotFound = "cart.item_not_found"
	KeyCartBadQuantity  = "cart.bad_quantity"

	// Orders
	KeyOrderPlaced        = "order.placed"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderStatusUpdated = "order.status_updated"
	KeyOrderTerminal      = "order.terminal"

	// Checkout
	KeyCheckoutAddressSet     = "checkout.address_set"
	KeyCheckoutStepOutOfOrder = "checkout.step_out_of_order"
	KeyCheckoutNoSession      = "checkout.no_session"

	// Payments
	KeyPaymentSuccess = "payment.success"
	KeyPaymentFailed  = "payment.failed"

	// Batches
	KeyBatchCreated        = "batch.created"
	KeyBatchNotFound       = "batch.not_found"
	KeyBatchStageAdvanced  = "batch.stage_advanced"
	KeyBatchMonitorStarted = "batch.monitor_started"
	KeyBatchMonitorStopped = "batch.monitor_stopped"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
