package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkforge/internal/config"
	"linkforge/internal/handlers"
	"linkforge/internal/repository"
	"linkforge/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup Logger
	logger, closeLog := newLogger(cfg)
	defer closeLog()
	slog.SetDefault(logger)

	// 3. Initialize Database
	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// 4. Run Migrations
	logger.Info("Running database migrations...")
	if err := repository.Migrate(db, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Background Context for workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// 5. Rate limiting, shared through Redis when it is reachable
	var rateLimiter services.RateLimiter
	rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
	if err != nil {
		logger.Warn("Failed to connect to Redis, using in-memory rate limiter", "error", err)
		memLimiter := services.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, logger)
		go memLimiter.StartCleanup(workerCtx, 10*time.Minute)
		rateLimiter = memLimiter
	} else {
		defer rdb.Close()
		rateLimiter = services.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)
	}

	// 6. Initialize Services
	tokenService, err := services.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	geoIPService := services.NewGeoIPService(cfg.GeoIPDBPath, logger)
	geoIPService.Init()
	defer geoIPService.Close()

	accountService := services.NewAccountService(db)
	authService := services.NewAuthService(accountService, tokenService, cfg.TokenTTL, cfg.RegisterTokenTTL)
	linkService := services.NewLinkService(db, cfg.ShortBaseURL, cfg.CustomBaseURL)
	auditService := services.NewAuditService(db, logger, geoIPService)
	qrService := services.NewQRService()

	// 7. Initialize Handler
	h := handlers.NewHandler(cfg, logger, authService, tokenService, linkService, auditService, qrService)

	// 8. Setup Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := h.SetupRouter(rateLimiter)

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		auditService.Start(workerCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	workerCancel()
	<-auditDone

	logger.Info("Server exiting")
	return runErr
}

// newLogger writes JSON in production and text elsewhere. When LOG_FILE is
// set, output is also written to a rotated file.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	var out io.Writer = os.Stdout
	closeFn := func() {}
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closeFn = func() { rotator.Close() }
	}

	var handler slog.Handler
	if cfg.AppEnv == "production" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler), closeFn
}
