package server

import (
	"context"
	"net/http"
	"time"

	"coinpay/internal/auth"
	"coinpay/internal/config"
	"coinpay/internal/ledger"
	"coinpay/internal/notify"
	"coinpay/internal/payment"
	"coinpay/internal/paymentlock"
	"coinpay/internal/product"
	"coinpay/internal/reconcile"
	"coinpay/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	notify *notify.Service
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, notifyService *notify.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	productRepo := product.NewRepository(db)
	userRepo := user.NewRepository(db)
	engine := reconcile.NewEngine(db, productRepo, userRepo, notifyService)

	userHandler := user.NewHandler(db)
	productHandler := product.NewHandler(db)
	lockHandler := paymentlock.NewHandler(db)
	webhookHandler := payment.NewWebhookHandler(cfg.WebhookSecret, engine, payment.NewSMSLogRepository(db))
	ledgerHandler := ledger.NewHandler(db)

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/razorpay", webhookHandler.HandleProviderWebhook)
		webhooks.POST("/sms", webhookHandler.HandleSMSWebhook)
	}

	checkout := router.Group("/")
	checkout.Use(RateLimitMiddleware(5, 10))
	{
		checkout.POST("/locks", lockHandler.Acquire)
		checkout.POST("/locks/:lockID/release", lockHandler.Release)
		checkout.GET("/locks/:lockID", lockHandler.Poll)
	}

	router.GET("/products", productHandler.List)
	router.GET("/products/:productID", productHandler.Get)

	users := router.Group("/users")
	{
		users.POST("/:gamingID/visit", userHandler.Visit)
		users.POST("/:gamingID/referral", userHandler.SetReferral)
		users.POST("/:gamingID/gift-password", userHandler.SetGiftPassword)
		users.POST("/:gamingID/gift-transfer", userHandler.GiftTransfer)
	}

	router.POST("/admin/login", AdminLogin(cfg))

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.GET("/orders", ledgerHandler.ListOrders)
		admin.GET("/sessions", ledgerHandler.ListSessions)
		admin.GET("/sms-logs", ledgerHandler.ListSMSLogs)
		admin.POST("/users/:gamingID/ban", userHandler.SetBanned)
		admin.POST("/users/:gamingID/hide", userHandler.SetHidden)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		notify: notifyService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
