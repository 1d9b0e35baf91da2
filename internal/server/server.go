package server

import (
	"time"

	"compustore-be/internal/auth"
	"compustore-be/internal/cart"
	"compustore-be/internal/config"
	"compustore-be/internal/customer"
	"compustore-be/internal/discount"
	"compustore-be/internal/logger"
	"compustore-be/internal/middleware"
	"compustore-be/internal/notification"
	"compustore-be/internal/order"
	"compustore-be/internal/payment"
	"compustore-be/internal/product"
	"compustore-be/internal/staff"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server bundles every service the HTTP handlers need.
type Server struct {
	cfg           *config.Config
	products      product.Service
	discounts     discount.Repository
	customers     customer.Service
	staffUsers    staff.Service
	carts         cart.Store
	orders        order.Service
	payments      payment.Registry
	notifications notification.Service
}

func New(
	cfg *config.Config,
	products product.Service,
	discounts discount.Repository,
	customers customer.Service,
	staffUsers staff.Service,
	carts cart.Store,
	orders order.Service,
	payments payment.Registry,
	notifications notification.Service,
) *Server {
	return &Server{
		cfg:           cfg,
		products:      products,
		discounts:     discounts,
		customers:     customers,
		staffUsers:    staffUsers,
		carts:         carts,
		orders:        orders,
		payments:      payments,
		notifications: notifications,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	if s.cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(logger.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Authenticate())
	r.Use(middleware.RateLimit())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
		}

		api.GET("/products", s.handleListProducts)
		api.GET("/products/:id", s.handleGetProduct)

		cartGroup := api.Group("/cart")
		{
			cartGroup.GET("", s.handleGetCart)
			cartGroup.POST("/add", s.handleCartAdd)
			cartGroup.POST("/set", s.handleCartSet)
			cartGroup.POST("/remove", s.handleCartRemove)
			cartGroup.POST("/clear", s.handleCartClear)
		}

		paymentGroup := api.Group("/payment")
		{
			paymentGroup.POST("/create-session", s.handleCreateSession)
			paymentGroup.POST("/upload-screenshot", s.handleUploadScreenshot)
			paymentGroup.GET("/verify/:fingerprint", s.handleVerifyFingerprint)
			paymentGroup.POST("/cleanup",
				middleware.RequireRole(auth.RoleAdmin),
				s.handlePaymentCleanup)
		}

		notifGroup := api.Group("/notifications",
			middleware.RequireRole(auth.RoleCustomer, auth.RoleStaff, auth.RoleAdmin))
		{
			notifGroup.GET("", s.handleListNotifications)
			notifGroup.POST("/:id/read", s.handleMarkNotificationRead)
			notifGroup.POST("/read-all", s.handleMarkAllNotificationsRead)
		}
	}

	staffGroup := r.Group("/staff")
	{
		staffGroup.POST("/auth/login", s.handleStaffLogin)

		orders := staffGroup.Group("/orders",
			middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin))
		{
			orders.POST("/create", s.handleCreateOrder)
			orders.GET("", s.handleListOrders)
			orders.GET("/:id", s.handleGetOrder)
			orders.POST("/:id/cancel", s.handleCancelOrder)
			orders.POST("/:id/cancel-items", s.handleCancelItems)
			orders.POST("/:id/approve", s.handleApproveOrder)
			orders.POST("/:id/reject", s.handleRejectOrder)
		}

		products := staffGroup.Group("/products",
			middleware.RequireRole(auth.RoleStaff, auth.RoleAdmin))
		{
			products.POST("", s.handleCreateProduct)
			products.PUT("/:id", s.handleUpdateProduct)
			products.POST("/:id/archive", s.handleArchiveProduct)
			products.POST("/:id/unarchive", s.handleUnarchiveProduct)
			products.DELETE("/:id", s.handleSoftDeleteProduct)
			products.POST("/:id/restore", s.handleRestoreProduct)
			products.POST("/:id/promotion", s.handleApplyPromotion)
			products.DELETE("/:id/promotion", s.handleClearPromotion)
		}

		rules := staffGroup.Group("/discount-rules",
			middleware.RequireRole(auth.RoleAdmin))
		{
			rules.POST("", s.handleCreateRule)
			rules.GET("", s.handleListRules)
			rules.PUT("/:id", s.handleUpdateRule)
			rules.POST("/:id/deactivate", s.handleDeactivateRule)
		}
	}

	return r
}
