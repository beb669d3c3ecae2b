package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seaview-backend/config"
	_ "seaview-backend/docs" // Important for Swagger
	v1 "seaview-backend/internal/delivery/http/v1"
	"seaview-backend/internal/gallery"
	"seaview-backend/internal/usecase"
	"seaview-backend/pkg/email"
	"seaview-backend/pkg/logger"
	"seaview-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// @title           Seaview Aged Care Website API
// @version         1.0
// @description     Mail relay, gallery and hero endpoints for the Seaview Aged Care website.
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.GinMode)
	gin.SetMode(cfg.GinMode)
	logger.Log.Info("Starting Seaview website", "port", cfg.Port, "mail_transport", cfg.MailTransport)

	// 3. Setup Redis (optional, rate limiting falls back to memory)
	if cfg.UpstashRedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer redis.Close()
		}
	}

	// 4. Setup Mail Transport
	sender, err := email.NewSender(cfg, logger.Log)
	if err != nil {
		logger.Log.Error("Mail transport misconfigured", "error", err)
		os.Exit(1)
	}

	// 5. Setup Gallery
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	library := gallery.NewLibrary(cfg.GalleryDir, logger.Log)
	if err := library.Refresh(ctx); err != nil {
		logger.Log.Warn("Gallery scan failed", "dir", cfg.GalleryDir, "error", err)
	}
	go func() {
		if err := library.Watch(ctx); err != nil {
			logger.Log.Warn("Gallery watcher stopped", "error", err)
		}
	}()

	// 6. Setup UseCases
	contactUC := usecase.NewContactUsecase(sender, validator.New(), cfg, logger.Log)
	galleryUC, err := usecase.NewGalleryUsecase(library, cfg.HeroImages, cfg.HeroInterval)
	if err != nil {
		logger.Log.Error("Hero carousel misconfigured", "error", err)
		os.Exit(1)
	}

	healthUC := usecase.NewHealthUsecase(redis.Client, library, cfg.MailTransport)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		GalleryUC: galleryUC,
		HealthUC:  healthUC,
		Config:    cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
