package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"foodgram/backend/internal/auth"
	"foodgram/backend/internal/config"
	"foodgram/backend/internal/database"
	"foodgram/backend/internal/handler"
	"foodgram/backend/internal/logger"
	"foodgram/backend/internal/media"
	"foodgram/backend/internal/shortlink"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	// Swagger imports
	_ "foodgram/backend/docs"
)

const revokedTokenSweep = time.Hour

func init() {
	config.LoadConfig()
}

// @title           Foodgram API
// @version         1.0
// @description     This is the API for the Foodgram recipe sharing service.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	if err := logger.InitializeLogger(cfg.AppEnv, cfg.LogLevel); err != nil {
		log.Fatalf("Unable to initialize logger, %v", err)
	}
	defer logger.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect(cfg)

	links, err := shortlink.New(cfg.ShortLinkAlphabet, cfg.ShortLinkMinLength)
	if err != nil {
		logger.Logger.Fatal("Invalid short link settings", zap.Error(err))
	}

	opts := handler.RouterOptions{AllowedOrigins: cfg.CORSAllowedOrigins}
	var store media.Store
	switch cfg.StorageDriver {
	case config.StorageSupabase:
		store = media.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	default:
		store = media.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
		opts.MediaURL, opts.MediaRoot = cfg.MediaURL, cfg.MediaRoot
	}
	handler.Configure(handler.Dependencies{Media: store, Links: links})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go sweepRevokedTokens(ctx)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler.NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server is running", zap.String("addr", cfg.ServerAddr))
		logger.Info("Swagger UI is available", zap.String("url", cfg.PublicURL+"/swagger/index.html"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// sweepRevokedTokens drops denylist entries for tokens that have expired.
func sweepRevokedTokens(ctx context.Context) {
	ticker := time.NewTicker(revokedTokenSweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := auth.PurgeExpired(ctx, database.DB, now.UTC())
			if err != nil {
				logger.Warn("Failed to purge revoked tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("Purged revoked tokens", zap.Int64("count", n))
			}
		}
	}
}
