// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/checkout"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/domain/sale"
	"github.com/your-org/pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"github.com/your-org/pos-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes. The cart engine, hold store and
// checkout coordinator are created once here and shared across the
// cart, checkout, sale and promotion handlers: there is a single
// active cart per register process.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	logger := newLogger(cfg)

	productService := product.NewService(db, cfg)
	engine := cart.NewEngine(productService)
	holdStore := cart.NewHoldStore(redisClient, cfg)
	auditService := audit.NewService(db, logger)
	saleService := sale.NewService(db, cfg, auditService, logger)
	saleViews := sale.NewViews(saleService, logger)
	coordinator := checkout.NewCoordinator(engine, saleService, saleViews, logger)
	pdfService := pdf.NewService(cfg)

	setupAuthRoutes(rg, db, cfg)
	setupCatalogRoutes(rg, db, cfg)
	setupRegisterRoutes(rg, engine, holdStore, coordinator, saleService, saleViews, pdfService, productService, db, cfg)
	setupBackOfficeRoutes(rg, db, logger, cfg)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/login", authHandler.Login)
		auth.POST("/pin-login", authHandler.LoginWithPIN)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// setupCatalogRoutes sets up product, category and inventory routes
func setupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	inventoryHandler := handlers.NewInventoryHandler(db, cfg)

	products := rg.Group("/products")
	products.Use(middleware.AuthMiddleware(cfg))
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/low-stock", productHandler.GetLowStock)
		products.GET("/barcode/:barcode", productHandler.GetProductByBarcode)
		products.GET("/:id", productHandler.GetProduct)

		// Catalog writes are a back-office concern
		admin := products.Group("")
		admin.Use(middleware.ManagerMiddleware())
		{
			admin.POST("", productHandler.CreateProduct)
			admin.PUT("/:id", productHandler.UpdateProduct)
			admin.DELETE("/:id", productHandler.DeleteProduct)
		}
	}

	categories := rg.Group("/categories")
	categories.Use(middleware.AuthMiddleware(cfg))
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:id", categoryHandler.GetCategory)

		admin := categories.Group("")
		admin.Use(middleware.ManagerMiddleware())
		{
			admin.POST("", categoryHandler.CreateCategory)
			admin.PUT("/:id", categoryHandler.UpdateCategory)
			admin.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}

	inventory := rg.Group("/inventory")
	inventory.Use(middleware.AuthMiddleware(cfg))
	{
		inventory.GET("/movements", inventoryHandler.GetMovements)

		admin := inventory.Group("")
		admin.Use(middleware.ManagerMiddleware())
		{
			admin.POST("/adjust", inventoryHandler.AdjustStock)
		}
	}
}

// setupRegisterRoutes sets up the cashier-facing routes: cart,
// checkout, sales, customers and promotions
func setupRegisterRoutes(
	rg *gin.RouterGroup,
	engine *cart.Engine,
	holdStore *cart.HoldStore,
	coordinator *checkout.Coordinator,
	saleService *sale.Service,
	saleViews *sale.Views,
	pdfService *pdf.Service,
	productService *product.Service,
	db *gorm.DB,
	cfg *config.Config,
) {
	cartHandler := handlers.NewCartHandler(engine, holdStore, productService, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(coordinator, cfg)
	saleHandler := handlers.NewSaleHandler(saleService, saleViews, pdfService, cfg)
	customerHandler := handlers.NewCustomerHandler(db, cfg)
	promotionHandler := handlers.NewPromotionHandler(db, engine, cfg)

	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
		cartGroup.PUT("/items/:id/discount", cartHandler.SetItemDiscount)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.DELETE("/stock-error", cartHandler.ClearStockError)

		cartGroup.POST("/holds", cartHandler.HoldCart)
		cartGroup.GET("/holds", cartHandler.ListHolds)
		cartGroup.POST("/holds/:id/resume", cartHandler.ResumeHold)
		cartGroup.DELETE("/holds/:id", cartHandler.DiscardHold)
	}

	checkoutGroup := rg.Group("/checkout")
	checkoutGroup.Use(middleware.AuthMiddleware(cfg))
	{
		checkoutGroup.POST("", checkoutHandler.Checkout)
		checkoutGroup.GET("/status", checkoutHandler.GetStatus)
	}

	sales := rg.Group("/sales")
	sales.Use(middleware.AuthMiddleware(cfg))
	{
		sales.GET("", saleHandler.GetSales)
		sales.GET("/recent", saleHandler.GetRecentSales)
		sales.GET("/today", saleHandler.GetTodayStats)
		sales.GET("/:id", saleHandler.GetSale)
		sales.GET("/:id/receipt", saleHandler.GetReceipt)
		sales.POST("/:id/refund", saleHandler.RefundSale)

		// Voiding erases a sale from the books, so admins only
		admin := sales.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/:id/void", saleHandler.VoidSale)
		}
	}

	customers := rg.Group("/customers")
	customers.Use(middleware.AuthMiddleware(cfg))
	{
		customers.GET("", customerHandler.GetCustomers)
		customers.GET("/debtors", customerHandler.GetDebtors)
		customers.GET("/:id", customerHandler.GetCustomer)
		customers.GET("/:id/ledger", customerHandler.GetLedger)
		customers.POST("", customerHandler.CreateCustomer)
		customers.PUT("/:id", customerHandler.UpdateCustomer)
		customers.POST("/:id/payments", customerHandler.RecordPayment)

		admin := customers.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.DELETE("/:id", customerHandler.DeleteCustomer)
		}
	}

	promotions := rg.Group("/promotions")
	promotions.Use(middleware.AuthMiddleware(cfg))
	{
		promotions.GET("", promotionHandler.GetPromotions)
		promotions.GET("/active", promotionHandler.GetActivePromotions)
		promotions.GET("/preview", promotionHandler.PreviewCart)
		promotions.GET("/:id", promotionHandler.GetPromotion)

		admin := promotions.Group("")
		admin.Use(middleware.ManagerMiddleware())
		{
			admin.POST("", promotionHandler.CreatePromotion)
			admin.PUT("/:id", promotionHandler.UpdatePromotion)
			admin.DELETE("/:id", promotionHandler.DeletePromotion)
		}
	}
}

// setupBackOfficeRoutes sets up suppliers, purchasing, expenses,
// analytics, register sessions and the admin-only management routes
func setupBackOfficeRoutes(rg *gin.RouterGroup, db *gorm.DB, logger *logrus.Logger, cfg *config.Config) {
	expenseHandler := handlers.NewExpenseHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)
	sessionHandler := handlers.NewSessionHandler(db, cfg)
	supplierHandler := handlers.NewSupplierHandler(db, cfg)
	purchaseHandler := handlers.NewPurchaseHandler(db, logger, cfg)
	settingsHandler := handlers.NewSettingsHandler(db, logger, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	auditHandler := handlers.NewAuditHandler(db, logger, cfg)

	suppliers := rg.Group("/suppliers")
	suppliers.Use(middleware.AuthMiddleware(cfg))
	suppliers.Use(middleware.ManagerMiddleware())
	{
		suppliers.GET("", supplierHandler.GetSuppliers)
		suppliers.GET("/:id", supplierHandler.GetSupplier)
		suppliers.POST("", supplierHandler.CreateSupplier)
		suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
		suppliers.POST("/:id/payments", supplierHandler.RecordSupplierPayment)
		suppliers.DELETE("/:id", supplierHandler.DeleteSupplier)
	}

	purchases := rg.Group("/purchases")
	purchases.Use(middleware.AuthMiddleware(cfg))
	purchases.Use(middleware.ManagerMiddleware())
	{
		purchases.GET("", purchaseHandler.GetOrders)
		purchases.GET("/:id", purchaseHandler.GetOrder)
		purchases.POST("", purchaseHandler.CreateOrder)
		purchases.PUT("/:id/status", purchaseHandler.UpdateOrderStatus)
		purchases.POST("/:id/receive", purchaseHandler.ReceiveOrder)
	}

	expenses := rg.Group("/expenses")
	expenses.Use(middleware.AuthMiddleware(cfg))
	{
		expenses.GET("", expenseHandler.GetExpenses)
		expenses.GET("/summary", expenseHandler.GetExpenseSummary)
		expenses.POST("", expenseHandler.CreateExpense)

		admin := expenses.Group("")
		admin.Use(middleware.ManagerMiddleware())
		{
			admin.PUT("/:id", expenseHandler.UpdateExpense)
			admin.DELETE("/:id", expenseHandler.DeleteExpense)
		}
	}

	analytics := rg.Group("/analytics")
	analytics.Use(middleware.AuthMiddleware(cfg))
	analytics.Use(middleware.ManagerMiddleware())
	{
		analytics.GET("/summary", analyticsHandler.GetSummary)
		analytics.GET("/revenue/hourly", analyticsHandler.GetHourlyRevenue)
		analytics.GET("/revenue/daily", analyticsHandler.GetDailyRevenue)
		analytics.GET("/revenue/monthly", analyticsHandler.GetMonthlyRevenue)
		analytics.GET("/top-products", analyticsHandler.GetTopProducts)
		analytics.GET("/payment-methods", analyticsHandler.GetPaymentMethods)
		analytics.GET("/peak-hours", analyticsHandler.GetPeakHours)
	}

	sessions := rg.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware(cfg))
	{
		sessions.GET("", sessionHandler.GetSessionHistory)
		sessions.POST("/open", sessionHandler.OpenSession)
		sessions.GET("/current", sessionHandler.GetCurrentSession)
		sessions.POST("/:id/close", sessionHandler.CloseSession)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		users := admin.Group("/users")
		{
			users.GET("", userAdminHandler.GetUsers)
			users.GET("/:id", userAdminHandler.GetUser)
			users.POST("", userAdminHandler.CreateUser)
			users.PUT("/:id", userAdminHandler.UpdateUser)
			users.DELETE("/:id", userAdminHandler.DeleteUser)
		}

		settings := admin.Group("/settings")
		{
			settings.GET("", settingsHandler.GetSettings)
			settings.GET("/:key", settingsHandler.GetSetting)
			settings.PUT("", settingsHandler.UpdateSettings)
		}

		admin.GET("/audit-logs", auditHandler.GetLogs)
	}
}

// newLogger builds the service logger from the logging config
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	return logger
}
