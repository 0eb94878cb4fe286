package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sellermetrics/catalog_api/internal/cache"
	"github.com/sellermetrics/catalog_api/internal/config"
	"github.com/sellermetrics/catalog_api/internal/database"
	"github.com/sellermetrics/catalog_api/internal/handler"
	"github.com/sellermetrics/catalog_api/internal/middleware"
	"github.com/sellermetrics/catalog_api/internal/repository"
	"github.com/sellermetrics/catalog_api/internal/service"
	"github.com/sellermetrics/catalog_api/internal/worker"
)

// main is the application entrypoint for the catalog administration API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize sync summary cache
	syncCache := cache.NewSyncCache(redisClient)

	// 4. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	marketplaceRepo := repository.NewMarketplaceRepository(db)
	listingRepo := repository.NewListingRepository(db)
	skuMasterRepo := repository.NewSkuMasterRepository(db)
	costProfileRepo := repository.NewCostProfileRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 5. Initialize feed storage (optional; import from S3 is disabled without it)
	feedStorage, err := service.NewFeedStorage(&cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("feed storage initialization failed - S3 feed import will be disabled")
		feedStorage = nil
	}

	// 6. Initialize services
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	productSvc := service.NewProductService(productRepo, costProfileRepo, listingRepo)
	importSvc := service.NewImportService(productRepo, feedStorage, cfg.Import.ChunkSize)
	listingSvc := service.NewListingService(listingRepo, marketplaceRepo, productRepo)
	syncSvc := service.NewSyncService(marketplaceRepo, skuMasterRepo, syncCache)
	skuMasterSvc := service.NewSkuMasterService(skuMasterRepo)

	// 7. Initialize handlers
	loginLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:      handler.NewHealthHandler(db, redisClient),
		Auth:        handler.NewAuthHandler(adminAuthSvc, loginLimiter),
		Product:     handler.NewProductHandler(productSvc, importSvc),
		Marketplace: handler.NewMarketplaceHandler(marketplaceRepo, listingSvc),
		SkuMaster:   handler.NewSkuMasterHandler(skuMasterSvc, syncSvc),
		CostProfile: handler.NewCostProfileHandler(costProfileRepo),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	if cfg.Worker.SyncInterval > 0 {
		go worker.NewChannelSyncWorker(marketplaceRepo, syncSvc, cfg.Worker.SyncInterval).Start(ctx)
	} else {
		log.Info().Msg("scheduled channel sync disabled")
	}

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Product     *handler.ProductHandler
	Marketplace *handler.MarketplaceHandler
	SkuMaster   *handler.SkuMasterHandler
	CostProfile *handler.CostProfileHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.Check)

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		// Product Management
		admin.GET("/products", handlers.Product.ListProducts)
		admin.POST("/products", handlers.Product.CreateProduct)
		admin.POST("/products/import", handlers.Product.ImportProducts)
		admin.POST("/products/import/s3", handlers.Product.ImportProductsFromS3)
		admin.GET("/products/:id", handlers.Product.GetProduct)
		admin.PUT("/products/:id", handlers.Product.UpdateProduct)
		admin.DELETE("/products/:id", handlers.Product.DeleteProduct)
		admin.GET("/products/:id/listings", handlers.Product.GetProductListings)

		// Marketplace Management
		admin.GET("/marketplaces", handlers.Marketplace.ListMarketplaces)
		admin.POST("/marketplaces", handlers.Marketplace.CreateMarketplace)
		admin.PUT("/marketplaces/:id", handlers.Marketplace.UpdateMarketplace)
		admin.POST("/marketplaces/:id/listings", handlers.Marketplace.BulkUpsertListings)
		admin.PUT("/listings/:id", handlers.Marketplace.UpdateListing)
		admin.DELETE("/listings/:id", handlers.Marketplace.DeleteListing)

		// SKU Master
		admin.GET("/sku-master", handlers.SkuMaster.ListRecords)
		admin.POST("/sku-master/missing", handlers.SkuMaster.IngestMissing)
		admin.POST("/sku-master/sync/:channel", handlers.SkuMaster.SyncChannel)
		admin.GET("/sku-master/sync/:channel", handlers.SkuMaster.GetSyncStatus)

		// Cost Profiles (read-only)
		admin.GET("/cost-profiles", handlers.CostProfile.ListCostProfiles)
		admin.GET("/cost-profiles/:id", handlers.CostProfile.GetCostProfile)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
