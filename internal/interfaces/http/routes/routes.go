// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/boba-pos-backend/internal/config"
	"github.com/your-org/boba-pos-backend/internal/domain/analytics"
	"github.com/your-org/boba-pos-backend/internal/domain/cart"
	"github.com/your-org/boba-pos-backend/internal/domain/checkout"
	"github.com/your-org/boba-pos-backend/internal/domain/customer"
	"github.com/your-org/boba-pos-backend/internal/domain/employee"
	"github.com/your-org/boba-pos-backend/internal/domain/inventory"
	"github.com/your-org/boba-pos-backend/internal/domain/menu"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
	"github.com/your-org/boba-pos-backend/internal/infrastructure/database/redis"
	"github.com/your-org/boba-pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/boba-pos-backend/internal/interfaces/http/middleware"
	"github.com/your-org/boba-pos-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Menu      *handlers.MenuHandler
	Cart      *handlers.CartHandler
	Checkout  *handlers.CheckoutHandler
	Customer  *handlers.CustomerHandler
	Auth      *handlers.AuthHandler
	Order     *handlers.OrderHandler
	Inventory *handlers.InventoryHandler
	Employee  *handlers.EmployeeHandler
	Analytics *handlers.AnalyticsHandler
}

// NewHandlers wires services to their stores and builds the handlers
func NewHandlers(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *Handlers {
	menuRepo := menu.NewRepository(db)
	menuService := menu.NewService(menuRepo, menuRepo, redisClient, cfg.POS.SessionTTL, logger)
	cartService := cart.NewService(redisClient, cfg.POS.SessionTTL)
	orderService := order.NewService(db)
	customerService := customer.NewService(db)
	employeeService := employee.NewService(db, cfg, logger)
	checkoutService := checkout.NewService(orderService, customerService, redisClient, cfg.POS, logger)

	return &Handlers{
		Menu:      handlers.NewMenuHandler(menuService),
		Cart:      handlers.NewCartHandler(cartService, menuService),
		Checkout:  handlers.NewCheckoutHandler(cartService, checkoutService, logger),
		Customer:  handlers.NewCustomerHandler(customerService),
		Auth:      handlers.NewAuthHandler(employeeService),
		Order:     handlers.NewOrderHandler(orderService, pdf.NewService(cfg)),
		Inventory: handlers.NewInventoryHandler(inventory.NewService(db)),
		Employee:  handlers.NewEmployeeHandler(employeeService),
		Analytics: handlers.NewAnalyticsHandler(analytics.NewService(db)),
	}
}

// SetupRoutes registers all API routes
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	SetupOrderingRoutes(rg, h, cfg)
	SetupCustomerRoutes(rg, h)
	SetupAuthRoutes(rg, h, cfg)
	SetupStaffRoutes(rg, h, cfg)
	SetupManagerRoutes(rg, h, cfg)
}

// SetupOrderingRoutes sets up the kiosk and register ordering flow
func SetupOrderingRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	ordering := rg.Group("")
	ordering.Use(middleware.Session(cfg.POS.SessionTTL))
	{
		ordering.GET("/menu", h.Menu.GetMenu)

		cartRoutes := ordering.Group("/cart")
		{
			cartRoutes.GET("", h.Cart.GetCart)
			cartRoutes.DELETE("", h.Cart.ClearCart)
			cartRoutes.POST("/items", h.Cart.AddItem)
			cartRoutes.PUT("/items/:index", h.Cart.UpdateItem)
			cartRoutes.DELETE("/items/:index", h.Cart.RemoveItem)
			cartRoutes.POST("/items/:index/increment", h.Cart.IncrementItem)
			cartRoutes.POST("/items/:index/decrement", h.Cart.DecrementItem)
		}

		// Staff tokens mark employee checkout; without one the order is self-service
		ordering.POST("/checkout", middleware.OptionalAuthMiddleware(cfg), h.Checkout.Checkout)
	}
}

// SetupCustomerRoutes sets up rewards customer routes
func SetupCustomerRoutes(rg *gin.RouterGroup, h *Handlers) {
	customers := rg.Group("/customers")
	{
		customers.POST("/session", h.Customer.StartSession)
		customers.GET("/:id", h.Customer.GetCustomer)
	}
}

// SetupAuthRoutes sets up employee authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.AuthMiddleware(cfg), h.Auth.Me)
	}
}

// SetupStaffRoutes sets up routes for any signed-in employee
func SetupStaffRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/receipt", h.Order.GetReceipt)
	}
}

// SetupManagerRoutes sets up the manager dashboard routes
func SetupManagerRoutes(rg *gin.RouterGroup, h *Handlers, cfg *config.Config) {
	manager := rg.Group("/manager")
	manager.Use(middleware.AuthMiddleware(cfg))
	manager.Use(middleware.ManagerMiddleware())
	{
		menuRoutes := manager.Group("/menu")
		{
			menuRoutes.GET("", h.Menu.ListItems)
			menuRoutes.GET("/:id", h.Menu.GetItem)
			menuRoutes.POST("", h.Menu.CreateItem)
			menuRoutes.PUT("/:id", h.Menu.UpdateItem)
			menuRoutes.DELETE("/:id", h.Menu.DeleteItem)
		}

		inventoryRoutes := manager.Group("/inventory")
		{
			inventoryRoutes.GET("", h.Inventory.ListItems)
			inventoryRoutes.GET("/low-stock", h.Inventory.LowStock)
			inventoryRoutes.GET("/:id", h.Inventory.GetItem)
			inventoryRoutes.POST("", h.Inventory.CreateItem)
			inventoryRoutes.PUT("/:id", h.Inventory.UpdateItem)
			inventoryRoutes.DELETE("/:id", h.Inventory.DeleteItem)
			inventoryRoutes.POST("/:id/adjust", h.Inventory.AdjustStock)
			inventoryRoutes.GET("/:id/movements", h.Inventory.Movements)
		}

		employeeRoutes := manager.Group("/employees")
		{
			employeeRoutes.GET("", h.Employee.ListEmployees)
			employeeRoutes.GET("/:id", h.Employee.GetEmployee)
			employeeRoutes.POST("", h.Employee.CreateEmployee)
			employeeRoutes.PUT("/:id", h.Employee.UpdateEmployee)
			employeeRoutes.DELETE("/:id", h.Employee.DeleteEmployee)
		}

		orderRoutes := manager.Group("/orders")
		{
			orderRoutes.GET("", h.Order.SearchOrders)
			orderRoutes.PUT("/:id/status", h.Order.UpdateStatus)
		}

		analyticsRoutes := manager.Group("/analytics")
		{
			analyticsRoutes.GET("/sales", h.Analytics.GetSalesAnalytics)
			analyticsRoutes.GET("/x-report", h.Analytics.GetXReport)
		}
	}
}
