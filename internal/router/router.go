package router

import (
	"log"

	"github.com/buyroll/backend/internal/handlers"
	"github.com/buyroll/backend/internal/metrics"
	"github.com/buyroll/backend/internal/middleware"
	"github.com/buyroll/backend/internal/models"
	"github.com/buyroll/backend/internal/repositories"
	"github.com/buyroll/backend/internal/services"
	syncsvc "github.com/buyroll/backend/internal/services/sync"
	"github.com/buyroll/backend/pkg/cache"
	"github.com/buyroll/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the syncer so main can start the polling loop.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, cfg *config.Config) *syncsvc.Syncer {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Purchase{},
		&models.Connection{},
		&models.Interaction{},
		&models.Notification{},
		&models.StoreIntegration{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	m := metrics.InitMetrics()
	e.Use(requestCounter(m))

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	productRepo := repositories.NewPostgresProductRepository(pgdb)
	purchaseRepo := repositories.NewPostgresPurchaseRepository(pgdb)
	connectionRepo := repositories.NewPostgresConnectionRepository(pgdb)
	interactionRepo := repositories.NewPostgresInteractionRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	integrationRepo := repositories.NewPostgresStoreIntegrationRepository(pgdb)
	analyticsRepo := repositories.NewPostgresAnalyticsRepository(pgdb)
	archiveRepo := repositories.NewMongoOrderArchiveRepository(mgClient.Database("buyroll"))

	// --- Initialize Services ---
	analyticsCache := cache.NewMemoryCache()
	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	sharingService := services.NewSharingService(purchaseRepo, connectionRepo, userRepo)
	feedService := services.NewFeedService(purchaseRepo, connectionRepo, userRepo, interactionRepo)
	interactionService := services.NewInteractionService(interactionRepo, purchaseRepo, sharingService, notificationService)
	connectionService := services.NewConnectionService(connectionRepo, userRepo, notificationService)
	analyticsService := services.NewAnalyticsService(analyticsRepo, userRepo, analyticsCache, cfg.CacheTTL)
	syncer := syncsvc.NewSyncer(
		integrationRepo, purchaseRepo, productRepo, archiveRepo, analyticsService,
		cfg.SyncInterval,
		syncsvc.NewShopifyClient(), syncsvc.NewWooCommerceClient(),
	)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.Env == "production")
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (session cookie + CSRF on mutations) ---
	api := e.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	api.Use(middleware.CSRFMiddleware())
	log.Println("Session authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Purchase and sharing routes
	purchaseHandler := handlers.NewPurchaseHandler(purchaseRepo, sharingService, notificationService, m)
	purchaseHandler.RegisterPurchaseRoutes(api)
	log.Println("Purchase routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Interaction routes
	interactionHandler := handlers.NewInteractionHandler(interactionService, m)
	interactionHandler.RegisterInteractionRoutes(api)
	log.Println("Interaction routes configured.")

	// Connection routes
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	connectionHandler.RegisterConnectionRoutes(api)
	log.Println("Connection routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Analytics routes
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	analyticsHandler.RegisterAnalyticsRoutes(api)
	log.Println("Analytics routes configured.")

	// Store integration routes
	integrationHandler := handlers.NewIntegrationHandler(integrationRepo, syncer, m)
	integrationHandler.RegisterIntegrationRoutes(api)
	log.Println("Integration routes configured.")

	log.Println("All routes configured.")
	return syncer
}

// requestCounter tallies 2xx and 4xx responses per route template.
func requestCounter(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			}
			switch {
			case status >= 200 && status < 300:
				m.SuccessfulRequests.WithLabelValues(c.Path()).Inc()
			case status >= 400 && status < 500:
				m.BadRequests.WithLabelValues(c.Path()).Inc()
			}
			return err
		}
	}
}
