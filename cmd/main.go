package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"stockzero/internal/caching"
	"stockzero/internal/config"
	"stockzero/internal/db"
	"stockzero/internal/handlers"
	"stockzero/internal/middleware"
	"stockzero/internal/repositories"
	"stockzero/internal/services"
)

const version = "1.0.0"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("config load failed", "error", err)
	}

	// Query-layer singletons, constructed once and owned here.
	selector, err := db.NewEndpointSelector(
		cfg.DatabaseURL,
		cfg.DatabaseFallbackURL,
		db.NewPgProber(cfg.ConnectTimeout),
		sugar,
	)
	if err != nil {
		sugar.Fatalw("no usable database endpoint", "error", err)
	}

	pools := db.NewPoolManager(db.PoolSettings{
		Size:               cfg.PoolSize,
		Overflow:           cfg.MaxOverflow,
		AcquireTimeout:     cfg.PoolTimeout,
		Recycle:            cfg.PoolRecycle,
		ConnectTimeout:     cfg.ConnectTimeout,
		StatementTimeoutMS: cfg.StatementTimeoutMS,
	}, sugar)
	defer pools.Close()

	source := db.NewSource(selector, pools)
	oracle := db.NewVersionOracle(source, cfg.DataVersionTTL, sugar)

	var cache db.QueryCache
	if cfg.RedisAddr != "" {
		redisCache := caching.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, sugar)
		defer redisCache.Close()
		cache = redisCache
	} else {
		cache = caching.NewMemoryCache()
	}

	runner := db.NewRunner(source, oracle, cache, cfg.QueryTTL, sugar)

	// Repositories and services, all on top of the one QDF entry point.
	catalogRepo := repositories.NewCatalogRepo(runner)
	kpiRepo := repositories.NewKPIRepo(runner, cfg.MaxBrandFilter)
	listingRepo := repositories.NewListingRepo(runner)

	var objectStore services.ObjectStore
	if cfg.MinioEndpoint != "" {
		objectStore, err = services.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			sugar.Warnw("object store unavailable, exports will not be archived", "error", err)
			objectStore = nil
		}
	}

	dashboardSvc := services.NewDashboardService(catalogRepo, kpiRepo, listingRepo, sugar)
	exportSvc := services.NewExportService(listingRepo, catalogRepo, objectStore, cfg.MinioBucket, sugar)

	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	exportHandlers := handlers.NewExportHandlers(exportSvc)
	healthHandlers := handlers.NewHealthHandlers(source, version)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	v1 := e.Group("/v1")
	v1.Use(middleware.TokenGate(cfg.AppToken))

	v1.GET("/routes", dashboardHandlers.Routes)
	v1.GET("/stores", dashboardHandlers.Stores)
	v1.GET("/brands", dashboardHandlers.Brands)
	v1.GET("/context", dashboardHandlers.Context)
	v1.GET("/kpis", dashboardHandlers.KPIs)
	v1.GET("/skus", dashboardHandlers.Skus)
	v1.GET("/export", exportHandlers.Export)

	sugar.Infow("stockzero starting", "version", version, "port", cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
