package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shelflens/backend/config"
	httpDelivery "github.com/shelflens/backend/internal/delivery/http"
	"github.com/shelflens/backend/internal/infrastructure/serpapi"
	"github.com/shelflens/backend/internal/infrastructure/vision"
	"github.com/shelflens/backend/internal/usecase"
	"github.com/shelflens/backend/pkg/logger"
)

func main() {
	// Load .env if present; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()

	logger.Info("starting shelflens backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize infrastructure dependencies
	shoppingClient := serpapi.NewClient(serpapi.ClientConfig{
		APIKey:          cfg.SerpAPI.APIKey,
		BaseURL:         cfg.SerpAPI.BaseURL,
		Country:         cfg.SerpAPI.Country,
		Language:        cfg.SerpAPI.Language,
		SearchesPerHour: cfg.RateLimit.SerpAPI,
		Timeout:         cfg.SerpAPI.Timeout,
	})
	if cfg.Server.Environment == "development" {
		shoppingClient.SetDebug(true)
	}

	ocrClient := vision.NewClient(cfg.Vision.APIKey, cfg.Vision.BaseURL)
	if !ocrClient.Configured() {
		logger.Warn("Vision API key not configured, OCR extraction will be unavailable")
	}

	// Initialize usecase layer
	locatorService := usecase.NewLocatorService(shoppingClient, usecase.LocatorConfig{
		MaxCandidates:   cfg.Search.MaxCandidates,
		DefaultLocation: cfg.Search.DefaultLocation,
		ExtraExclusions: cfg.Search.ExtraExclusions,
	})

	logger.Info("pipeline configured",
		zap.Int("max_candidates", cfg.Search.MaxCandidates),
		zap.String("default_location", cfg.Search.DefaultLocation),
		zap.Int("serpapi_searches_per_hour", cfg.RateLimit.SerpAPI),
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(locatorService, ocrClient, ocrClient.Configured())

	// Setup router and start server
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
