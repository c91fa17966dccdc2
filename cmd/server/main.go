package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ratemymusic/rmm-api/internal/app"
	"github.com/ratemymusic/rmm-api/internal/config"
	"github.com/ratemymusic/rmm-api/internal/constants"
	httpapp "github.com/ratemymusic/rmm-api/internal/http"
	"github.com/ratemymusic/rmm-api/internal/logger"
	"github.com/ratemymusic/rmm-api/internal/ratelimit"
	"github.com/ratemymusic/rmm-api/internal/store"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		appLogger.Error("Failed to init DB", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize Services
	services := app.NewServices(db, app.NewPasswordHasher(cfg.PasswordIterations), appLogger)

	limiter := ratelimit.New(ratelimit.Config{
		Limit:         cfg.LoginRateLimit,
		Window:        cfg.LoginRateWindow,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisTimeout:  constants.DefaultRedisTimeout,
	})
	defer limiter.Close()

	// Initialize Router
	h := httpapp.NewHandler(services, limiter, appLogger)
	h.TrustedProxies = cfg.TrustedProxyPrefixes()
	r := httpapp.NewRouter(h)

	// Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "driver", db.Driver(), "redis", cfg.RedisAddr != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		return
	}

	appLogger.Info("Server exiting")
}
