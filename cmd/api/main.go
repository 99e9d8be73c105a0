package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rulix/auth-api/internal/auth"
	"github.com/rulix/auth-api/internal/config"
	"github.com/rulix/auth-api/internal/database"
	"github.com/rulix/auth-api/internal/handlers"
	middlewareCustom "github.com/rulix/auth-api/internal/middleware"
	"github.com/rulix/auth-api/internal/repositories"
	"github.com/rulix/auth-api/internal/routes"
	"github.com/rulix/auth-api/internal/services"
	pkghttp "github.com/rulix/auth-api/pkg/http"
	pkglogger "github.com/rulix/auth-api/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("db_path", cfg.Database.Path),
		slog.String("api_secret", pkglogger.MaskSecret(cfg.Auth.APISecret)),
		slog.String("password_scheme", cfg.Auth.PasswordScheme),
	)

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)
	attemptRepo := repositories.NewLoginAttemptRepository(db)

	// Security services
	auditLogger := pkglogger.NewAuditLogger(logger)
	verifier := auth.NewSignatureVerifier(cfg.Auth.APISecret)

	rateLimitService := services.NewRateLimitService(services.RateLimitConfig{
		MaxAttempts:   cfg.Auth.MaxLoginAttempts,
		LockoutWindow: cfg.Auth.LockoutWindow,
	}, logger)

	// Initialize services
	authService := services.NewAuthService(accountRepo, attemptRepo, rateLimitService, verifier, logger, auditLogger)
	adminService := services.NewAdminService(accountRepo, cfg.Auth.AdminToken, cfg.Auth.PasswordScheme, logger, auditLogger)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, ipConfig)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Setup router
	// RealIP is deliberately absent: it would rewrite RemoteAddr from
	// forwarded headers before the trusted-proxy check in ExtractClientIP
	// runs, letting clients pick their own lockout bucket.
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, healthHandler, authHandler, adminHandler, middlewareCustom.RateLimitConfig{
		RequestsPerMinute: cfg.Auth.RequestsPerMinute,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
