// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/bufferboard/internal/api"
	"github.com/andresuchdata/bufferboard/internal/buffer"
	"github.com/andresuchdata/bufferboard/internal/cache"
	"github.com/andresuchdata/bufferboard/internal/config"
	"github.com/andresuchdata/bufferboard/internal/repository/postgres"
	"github.com/andresuchdata/bufferboard/internal/service"
	"github.com/andresuchdata/bufferboard/internal/storage"
	"github.com/andresuchdata/bufferboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize cache
	summaryCache, err := cache.NewSummaryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		summaryCache = cache.NewNoopSummaryCache()
	}

	// Initialize repositories
	salesRepo := postgres.NewSalesRepository(db)
	bufferRepo := postgres.NewBufferRepository(db)
	stockRepo := postgres.NewStockRepository(db)
	poRepo := postgres.NewPurchaseOrderRepository(db)
	refRepo := postgres.NewReferenceRepository(db)
	runRepo := postgres.NewRunRepository(db)

	// Initialize the calculation engine from the configured policy
	calc := buffer.NewCalculator(service.PolicyFromConfig(cfg.Buffer))

	// Optional object storage for exports
	var objects storage.ObjectStorage
	if cfg.Export.Endpoint != "" {
		objects, err = storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Export.Endpoint,
			AccessKey: cfg.Export.AccessKey,
			SecretKey: cfg.Export.SecretKey,
			Bucket:    cfg.Export.Bucket,
			Region:    cfg.Export.Region,
			UseSSL:    cfg.Export.UseSSL,
		})
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, exports stay local")
			objects = nil
		}
	}

	// Initialize services
	recommendationService := service.NewRecommendationService(bufferRepo, stockRepo, poRepo, calc, summaryCache)
	services := &api.Services{
		Sales:           service.NewSalesService(salesRepo, calc.Policy(), summaryCache),
		Buffers:         service.NewBufferService(bufferRepo, salesRepo, poRepo, refRepo, runRepo, calc, summaryCache),
		Recommendations: recommendationService,
		KPI:             service.NewKPIService(salesRepo, stockRepo, calc),
		Explain:         service.NewExplainService(bufferRepo, salesRepo, stockRepo, poRepo, calc),
		Export:          service.NewExportService(recommendationService, objects, cfg.Export.Dir),
		Catalog:         service.NewCatalogService(refRepo),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
