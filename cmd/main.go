package main

import (
	"fmt"
	"log"

	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"courierhub/internal/caching"
	"courierhub/internal/config"
	"courierhub/internal/handlers"
	"courierhub/internal/jobs/background"
	"courierhub/internal/middleware"
	"courierhub/internal/models"
	"courierhub/internal/repositories"
	"courierhub/internal/services"
	"courierhub/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	// Database connection pool
	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Cache service
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Object storage for shipping labels
	labelStorage, err := services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	tenantUserRepo := repositories.NewTenantUserRepo(pool)
	shipmentRepo := repositories.NewShipmentRepo(pool)
	shipmentEventRepo := repositories.NewShipmentEventRepo(pool)
	rateRepo := repositories.NewRateRepo(pool)
	sessionRepo := repositories.NewSessionRepo(pool)

	// Services
	tenantSvc := services.NewTenantService(tenantRepo, tenantUserRepo, cfg.JWTSecret)
	rateSvc := services.NewRateService(rateRepo, cacheSvc)
	shipmentSvc := services.NewShipmentService(shipmentRepo, shipmentEventRepo, rateSvc)
	sessionSvc := services.NewSessionService(sessionRepo, cacheSvc)
	labelSvc := services.NewLabelService(shipmentSvc, labelStorage)

	// Middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.JWTSecret, cfg.JWKSURL)
	if err != nil {
		log.Fatalf("Failed to initialize auth middleware: %v", err)
	}
	tenantMiddleware := middleware.NewTenantMiddleware(tenantSvc)
	rateLimiter := middleware.NewRateLimiter(cacheSvc, map[string]int{
		models.PlanFree:       cfg.QuotaFree,
		models.PlanPro:        cfg.QuotaPro,
		models.PlanEnterprise: cfg.QuotaEnterprise,
	})

	// Handlers
	authHandlers := handlers.NewAuthHandlers(tenantSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc)
	shipmentHandlers := handlers.NewShipmentHandlers(shipmentSvc, labelSvc)
	rateHandlers := handlers.NewRateHandlers(rateSvc)
	sessionHandlers := handlers.NewSessionHandlers(sessionSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)

	// Background jobs
	scheduler, err := background.NewJobScheduler(sessionSvc, rateSvc, tenantSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/detailed", healthHandlers.DetailedHealthCheck)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// Whitelisted routes: no tenant resolution, no rate limiting
	v1.POST("/auth/signup", authHandlers.Signup)
	v1.POST("/auth/login", authHandlers.Login)
	v1.GET("/track/:trackingNumber", shipmentHandlers.PublicTracking)

	// Tenant-scoped routes: principal -> tenant -> quota, in that order
	protected := v1.Group("")
	protected.Use(authMiddleware.Principal())
	protected.Use(tenantMiddleware.Resolve())
	protected.Use(rateLimiter.Limit())

	// Shipment routes
	protected.POST("/shipments", shipmentHandlers.CreateShipment)
	protected.GET("/shipments", shipmentHandlers.ListShipments)
	protected.GET("/shipments/:trackingNumber", shipmentHandlers.GetShipment)
	protected.PUT("/shipments/:trackingNumber/status", shipmentHandlers.UpdateStatus)
	protected.GET("/shipments/:trackingNumber/events", shipmentHandlers.ListEvents)
	protected.POST("/shipments/:trackingNumber/label", shipmentHandlers.GenerateLabel)

	// Rate routes
	protected.POST("/rates/quote", rateHandlers.Quote)
	protected.GET("/rates", rateHandlers.ListRates)
	protected.PUT("/rates", rateHandlers.UpsertRate)

	// Session routes
	protected.POST("/sessions", sessionHandlers.CreateSession)
	protected.POST("/sessions/get-or-create", sessionHandlers.GetOrCreateSession)
	protected.GET("/sessions/:sessionID", sessionHandlers.GetSession)
	protected.PUT("/sessions/:sessionID", sessionHandlers.UpdateSession)
	protected.DELETE("/sessions/:sessionID", sessionHandlers.DeleteSession)

	// Tenant routes
	protected.GET("/tenants/me", tenantHandlers.GetTenant)
	protected.PUT("/tenants/me/plan", tenantHandlers.UpdatePlan)
	protected.DELETE("/tenants/me", tenantHandlers.DeactivateTenant)

	log.Printf("courierhub server v%s starting on port %d", version, cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
