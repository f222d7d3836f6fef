package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChaseRain/deckgen/internal/api"
	"github.com/ChaseRain/deckgen/internal/infra/config"
	"github.com/ChaseRain/deckgen/internal/infra/httpclient"
	"github.com/ChaseRain/deckgen/internal/infra/limiter"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/internal/service/gemini"
	"github.com/ChaseRain/deckgen/internal/service/imagegen"
	"github.com/ChaseRain/deckgen/internal/service/images"
	"github.com/ChaseRain/deckgen/internal/service/orchestrator"
	"github.com/ChaseRain/deckgen/internal/service/ppt"
	"github.com/ChaseRain/deckgen/internal/service/preview"
	"github.com/ChaseRain/deckgen/internal/service/storage"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	// Init HTTP client
	httpClient := httpclient.New(httpclient.Options{
		Timeout:    time.Duration(cfg.HTTPClient.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.HTTPClient.MaxRetries,
	})

	// Init limiter
	lim := limiter.New(cfg.Limiter.MaxConcurrent, cfg.Limiter.RatePerSecond)

	// Init storage
	ctx := context.Background()
	storageSvc, err := storage.New(ctx, cfg.Storage, zapLogger.Named("storage"))
	if err != nil {
		zapLogger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	// Init services
	resolver := images.NewResolver(httpClient, storageSvc, zapLogger.Named("images"))
	pptSvc := ppt.New(resolver, zapLogger.Named("ppt"))
	previewSvc := preview.New(zapLogger.Named("preview"))
	geminiSvc := gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model, httpClient, zapLogger.Named("gemini"))
	imageGenSvc := imagegen.New(cfg.ImageGen.APIKey, cfg.ImageGen.Model, httpClient, zapLogger.Named("imagegen"))

	// Init orchestrator
	orch := orchestrator.New(geminiSvc, imageGenSvc, pptSvc, previewSvc, storageSvc, lim, cfg.Render, zapLogger)

	// Init router
	router := api.NewRouter(orch, storageSvc, zapLogger)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// Start server
	go func() {
		zapLogger.Info("starting server", "addr", cfg.Server.Addr, "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", "error", err)
	}
	zapLogger.Info("server stopped")
}
