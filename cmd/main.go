package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bsm/redislock"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"billmaker/docs"
	"billmaker/internal/analytics"
	"billmaker/internal/caching"
	"billmaker/internal/config"
	"billmaker/internal/handlers"
	"billmaker/internal/jobs/background"
	"billmaker/internal/middleware"
	"billmaker/internal/repositories"
	"billmaker/internal/services"
	"billmaker/pkg/database"
)

const version = "1.0.0"

// @title Billmaker API
// @version 1.0
// @description GST tax invoices: bills, saved addresses, PDF invoices and sales register exports.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	// Redis is a cache; the service runs degraded without it.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, caching disabled until it recovers", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	cacheSvc := caching.NewRedisCacheService(redisClient)

	// MinIO configuration
	minioClient, err := services.NewMinioClient(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		return err
	}
	documentStore := services.NewMinioDocumentStore(minioClient, cfg.Minio.Bucket)
	if err := documentStore.EnsureBucket(ctx); err != nil {
		logger.Warn("object storage unavailable, stored invoices disabled until it recovers", zap.String("endpoint", cfg.Minio.Endpoint), zap.Error(err))
	}

	// JWT configuration
	authCfg := cfg.Auth
	if authCfg.JWKSURL == "" && authCfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return errors.New("JWT_SECRET or JWKS_URL is required in production")
		}
		authCfg.JWTSecret = random.String(32)
		logger.Warn("using a generated JWT secret; tokens will not survive a restart")
	}
	authenticator, err := middleware.NewAuthenticator(authCfg, logger)
	if err != nil {
		return err
	}
	defer authenticator.Close()

	// Create repositories
	billRepo := repositories.NewBillRepository(pool)
	addressRepo := repositories.NewAddressRepository(pool)

	// Create services
	billSvc := services.NewBillService(billRepo, cacheSvc, services.BillSettings{
		TaxRatePercent: cfg.Tax.RatePercent,
		SplitPolicy:    cfg.SplitPolicy(),
		CacheTTL:       cfg.Redis.CacheTTL,
	}, logger)
	addressSvc := services.NewAddressService(addressRepo, logger)
	invoiceSvc := services.NewInvoiceService(billSvc, services.NewInvoiceRenderer(cfg.Seller), documentStore, cfg.Minio.PresignedTTL, logger)
	exporter := services.NewRegisterExporter(billSvc)
	summarySvc := analytics.NewSummaryService(billRepo, cacheSvc, cfg.Redis.CacheTTL, logger)

	// Create handlers
	billHandlers := handlers.NewBillHandlers(billSvc, invoiceSvc, exporter, logger)
	addressHandlers := handlers.NewAddressHandlers(addressSvc, logger)
	dashboardHandlers := handlers.NewDashboardHandlers(summarySvc, logger)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, documentStore, version)

	// Background jobs
	scheduler, err := background.NewJobScheduler(documentStore, redislock.New(redisClient), background.SchedulerConfig{
		PDFRetention:       cfg.Jobs.PDFRetention,
		PDFCleanupInterval: cfg.Jobs.PDFCleanupInterval,
	}, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Warn("scheduler shutdown", zap.Error(err))
		}
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()

	// Global middleware
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.BodyLimit(cfg.Server.BodyLimit))
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware(version)
	e.Use(versionMiddleware.APIVersionResolver())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	docs.SwaggerInfo.Version = version
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Protected routes
	v1 := versionMiddleware.VersionRoute(e, "v1")
	v1.Use(authenticator.Middleware())

	v1.GET("/bills", billHandlers.ListBills)
	v1.POST("/bills", billHandlers.CreateBill)
	v1.GET("/bills/export", billHandlers.ExportRegister)
	v1.GET("/bills/:id", billHandlers.GetBill)
	v1.PUT("/bills/:id", billHandlers.UpdateBill)
	v1.DELETE("/bills/:id", billHandlers.DeleteBill)
	v1.GET("/bills/:id/pdf", billHandlers.DownloadBillPDF)
	v1.POST("/bills/:id/pdf", billHandlers.StoreBillPDF)
	v1.POST("/tax/preview", billHandlers.PreviewTax)

	v1.GET("/addresses", addressHandlers.ListAddresses)
	v1.POST("/addresses", addressHandlers.CreateAddress)
	v1.GET("/addresses/:id", addressHandlers.GetAddress)
	v1.PUT("/addresses/:id", addressHandlers.UpdateAddress)
	v1.DELETE("/addresses/:id", addressHandlers.DeleteAddress)

	v1.GET("/dashboard/summary", dashboardHandlers.GetSummary)

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("billmaker server starting",
			zap.String("version", version),
			zap.String("port", cfg.Server.Port),
			zap.String("environment", cfg.Environment),
			zap.Float64("gst_rate_percent", cfg.Tax.RatePercent),
			zap.String("split_policy", string(cfg.SplitPolicy())))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
