package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/events"
	"github.com/suteetoe/quoteflow/internal/handler"
	"github.com/suteetoe/quoteflow/internal/middleware"
	"github.com/suteetoe/quoteflow/internal/repository"
	"github.com/suteetoe/quoteflow/internal/service"
	"github.com/suteetoe/quoteflow/internal/storage"
	"github.com/suteetoe/quoteflow/pkg/config"
	"github.com/suteetoe/quoteflow/pkg/database"
	"github.com/suteetoe/quoteflow/pkg/jwtutil"
	"github.com/suteetoe/quoteflow/pkg/logger"
	"github.com/suteetoe/quoteflow/prometheus"
)

func main() {
	// Load configuration from .env file, optional YAML file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	log.Info("Starting quoteflow service...", cfg.LogConfig()...)

	db, err := database.Open(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.DB.Migrate {
		if err := database.RunMigrations(db, log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	log.Info("Database connection established")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images, err := newImageStore(ctx, &cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	namer, err := storage.NewNameGenerator()
	if err != nil {
		log.Fatal("Failed to initialize image name generator", zap.Error(err))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout)
		log.Info("Kafka publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	merchants := repository.NewGormMerchantRepository(db)
	products := repository.NewGormProductRepository(db)
	quotes := repository.NewGormQuoteRepository(db)

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	authService := service.NewAuthService(merchants, jwt, log)
	catalogService := service.NewCatalogService(products, images, namer, cfg.Storage.MaxImageBytes, log)
	quoteService := service.NewQuoteService(quotes, merchants, publisher, log)
	storefrontService := service.NewStorefrontService(merchants, products, log)
	dashboardService := service.NewDashboardService(products, quotes)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit("8M"))
	e.Use(middleware.RequestIDMiddleware(log))
	e.Use(logger.Middleware())
	e.Use(prometheus.NewHTTPMetrics(cfg.ServiceName).Middleware())

	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	if cfg.Storage.Driver == "local" {
		e.Static(cfg.Storage.PublicPath, cfg.Storage.LocalDir)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.QuoteRequestsPerMinute, cfg.RateLimit.Burst, 10*time.Minute)
	handler.Register(e, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Products:  handler.NewProductHandler(catalogService),
		Quotes:    handler.NewQuoteHandler(quoteService),
		Stores:    handler.NewStoreHandler(storefrontService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Health:    handler.NewHealthHandler(cfg.ServiceName, sqlDB),
	}, middleware.JWTAuthMiddleware(authService), limiter.Middleware())

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	log.Info("Server stopped")
}

func newImageStore(ctx context.Context, cfg *config.StorageConfig) (storage.ImageStore, error) {
	if cfg.Driver == "s3" {
		opts := storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}
		client, err := storage.NewS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, opts), nil
	}
	local, err := storage.NewLocalStore(cfg.LocalDir, cfg.PublicPath)
	if err != nil {
		return nil, err
	}
	return local, nil
}
