package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpmetrics "veginReco/app/echo-server/metrics"
	"veginReco/app/echo-server/router"
	"veginReco/business/analysis"
	"veginReco/business/fusion"
	"veginReco/business/recommend"
	"veginReco/internal/middleware"
	esRepo "veginReco/internal/repository/elastic"
	"veginReco/internal/repository/embedding"
	psqlRepo "veginReco/internal/repository/postgres"
	redisRepo "veginReco/internal/repository/redis"
	"veginReco/internal/repository/xgboost"
	"veginReco/internal/rest"
	"veginReco/pkg/config"
	"veginReco/pkg/database"
	esClient "veginReco/pkg/database/elastic"
	redisClient "veginReco/pkg/database/redis"
	"veginReco/pkg/logger"
	"veginReco/pkg/metrics"
	"veginReco/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting vegin recommendation server", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()
	httpmetrics.Init()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := psqlRepo.AutoMigrate(db); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}

	es, err := esClient.NewElasticClient(startupCtx, cfg.Elastic)
	if err != nil {
		logger.Fatal("Failed to connect to elasticsearch", "error", err)
	}
	logger.Info("Elasticsearch connected", "index", cfg.Elastic.Index)

	// Scoring model is loaded eagerly so a broken artifact stops the process.
	scorer := xgboost.NewLoader(cfg.Model.Path)
	if err := scorer.Load(); err != nil {
		logger.Fatal("Failed to load scoring model", "error", err)
	}

	var embedder recommend.Embedder = embedding.NewEmbeddingRepository(embedding.EmbeddingConfig{
		BaseURL:   cfg.Embedding.BaseURL,
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})

	rdb, err := redisClient.NewRedisClient(startupCtx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, embedding cache disabled", "error", err)
	} else {
		defer rdb.Close()
		embedder = redisRepo.NewEmbeddingCache(rdb, embedder, cfg.Embedding.Model, cfg.Redis.EmbeddingTTL)
	}

	recoCfg, err := recommend.LoadConfig(cfg.Recommend.ConfigFile)
	if err != nil {
		logger.Fatal("Failed to load recommendation config", "error", err)
	}
	recoCfg, err = recoCfg.WithOverrides(cfg.Recommend.PerCategoryLimit, cfg.Recommend.TopK)
	if err != nil {
		logger.Fatal("Failed to load recommendation config", "error", err)
	}
	logger.Info("Recommendation config loaded",
		"per_category_limit", recoCfg.PerCategoryLimit,
		"top_k", recoCfg.TopK,
	)

	// Init repo
	productRepo := esRepo.NewProductRepository(es, cfg.Elastic.Index, cfg.Elastic.VectorField)
	analysisRepo := psqlRepo.NewAnalysisRepository(db)
	recoRepo := psqlRepo.NewRecommendationRepository(db)

	// Init service
	fusionService := fusion.NewFusionService()
	recommendService := recommend.NewRecommendService(recommend.Dependencies{
		Embedder: embedder,
		Searcher: productRepo,
		Scorer:   scorer,
	}, recoCfg)
	analysisService := analysis.NewAnalysisService(analysisRepo, recoRepo, fusionService, recommendService)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(fusionService, recommendService)
	analysisHandler := rest.NewAnalysisHandler(analysisService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = rest.JSONSerializer{}

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	router.SetHealthRoutes(e)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetFusionRoutes(api, recommendationHandler)
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetAnalysisRoutes(api, analysisHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server stopped")
}
