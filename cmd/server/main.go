package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carriernorth/release-form-api/internal/config"
	"github.com/carriernorth/release-form-api/internal/db"
	"github.com/carriernorth/release-form-api/internal/extractor"
	"github.com/carriernorth/release-form-api/internal/ocr"
	"github.com/carriernorth/release-form-api/internal/repository"
	"github.com/carriernorth/release-form-api/internal/router"
	"github.com/carriernorth/release-form-api/internal/services"
	"github.com/carriernorth/release-form-api/internal/storage"
	"github.com/carriernorth/release-form-api/internal/utils"
	"github.com/carriernorth/release-form-api/internal/vindecode"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize database
	database, err := db.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DatabasePath); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Object storage for original uploads
	store, err := storage.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize S3 storage", "error", err)
	}

	// Collaborators and extraction service
	ocrClient := ocr.NewClient(cfg.OCRAPIKey, cfg.OCREndpoint, cfg.OCRLanguage, logger)
	acquirer := extractor.NewAcquirer(ocrClient, logger)
	decoder := vindecode.NewClient(cfg.VINDecodeURL, logger)
	repo := repository.NewRepository(database)
	svc := services.NewService(repo, store, acquirer, decoder, logger)

	// Setup HTTP router
	handler := router.NewRouter(svc, logger, cfg.MaxFileSize, cfg.MaxFiles)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
