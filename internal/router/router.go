// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/humbleetrees/storefront-backend/internal/config"
	"github.com/humbleetrees/storefront-backend/internal/handlers"
	"github.com/humbleetrees/storefront-backend/internal/middleware"
	"github.com/humbleetrees/storefront-backend/internal/services"
	"github.com/humbleetrees/storefront-backend/internal/store"
	"github.com/humbleetrees/storefront-backend/internal/utils"
)

// Initialize wires services, handlers and routes onto a gin engine. The
// telemetry service is returned alongside the engine so the caller can stop
// its monitors on shutdown.
func Initialize(s *store.Store, cfg *config.Config) (*gin.Engine, *services.TelemetryService) {
	// Initialize services
	notificationService := services.NewNotificationService(s)
	telemetryService := services.NewTelemetryService(s, cfg.Telemetry)
	paymentProvider := services.NewSandboxPaymentProvider(cfg.Checkout)

	authService := services.NewAuthService(s, cfg)
	userService := services.NewUserService(s)
	productService := services.NewProductService(s)
	cartService := services.NewCartService(s)
	checkoutService := services.NewCheckoutService(s, cfg, paymentProvider, notificationService)
	orderService := services.NewOrderService(s, notificationService)
	batchService := services.NewBatchService(s, telemetryService)
	adminService := services.NewAdminService(s)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService)
	batchHandler := handlers.NewBatchHandler(batchService)
	farmerHandler := handlers.NewFarmerHandler(orderService, batchService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.RequestLog())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	if cfg.Server.RateLimitEnabled {
		r.Use(middleware.GeneralRateLimit())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		if cfg.Server.RateLimitEnabled {
			auth.Use(middleware.AuthRateLimit())
		}
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Public catalog routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.SearchProducts)
			products.GET("/popular", productHandler.GetPopularProducts)
			products.GET("/categories", productHandler.GetCategories)
			products.GET("/:id", productHandler.GetProduct)

			products.POST("", middleware.AuthRequired(), middleware.FarmerRequired(), productHandler.CreateProduct)
			products.PUT("/:id", middleware.AuthRequired(), middleware.FarmerRequired(), productHandler.UpdateProduct)
			products.DELETE("/:id", middleware.AuthRequired(), middleware.FarmerRequired(), productHandler.DeleteProduct)
		}

		// Cart routes. Guests get a session via the X-Session-Id header;
		// authenticated users are keyed by their user id.
		cart := v1.Group("/cart")
		cart.Use(middleware.OptionalAuth(), middleware.Session())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:productId", cartHandler.SetQuantity)
			cart.DELETE("/items/:productId", cartHandler.RemoveItem)
		}

		// Checkout routes require a signed-in buyer.
		checkout := v1.Group("/checkout")
		checkout.Use(middleware.AuthRequired(), middleware.Session())
		{
			checkout.POST("/address", checkoutHandler.SelectAddress)
			checkout.GET("/review", checkoutHandler.Review)
			checkout.POST("/submit", middleware.CheckoutRateLimit(), checkoutHandler.Submit)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/cancel", orderHandler.CancelOrder)
			orders.PUT("/:id/status", middleware.FarmerRequired(), orderHandler.UpdateStatus)
		}

		// Profile and address routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.GET("/addresses", userHandler.ListAddresses)
			users.POST("/addresses", userHandler.CreateAddress)
		}

		// Farmer routes
		farmer := v1.Group("/farmer")
		farmer.Use(middleware.AuthRequired(), middleware.FarmerRequired())
		{
			farmer.GET("/dashboard", farmerHandler.GetDashboard)
			farmer.GET("/products", productHandler.GetSellerProducts)
			farmer.GET("/orders", orderHandler.ListSellerOrders)

			farmer.GET("/batches", batchHandler.ListBatches)
			farmer.POST("/batches", batchHandler.CreateBatch)
			farmer.GET("/batches/:id", batchHandler.GetBatch)
			farmer.PUT("/batches/:id/stage", batchHandler.AdvanceStage)
			farmer.GET("/batches/:id/readings", batchHandler.GetReadings)
			farmer.POST("/batches/:id/monitor/start", batchHandler.StartMonitor)
			farmer.POST("/batches/:id/monitor/stop", batchHandler.StopMonitor)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/status", adminHandler.SetUserStatus)
			admin.GET("/products/pending", adminHandler.ListPendingProducts)
			admin.PUT("/products/:id/approval", adminHandler.SetProductApproval)
			admin.GET("/orders", adminHandler.ListOrders)
		}
	}

	return r, telemetryService
}
