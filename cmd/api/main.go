package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vestibule-auth/vestibule/internal/auth"
	"github.com/vestibule-auth/vestibule/internal/config"
	"github.com/vestibule-auth/vestibule/internal/database"
	"github.com/vestibule-auth/vestibule/internal/handlers"
	middlewareCustom "github.com/vestibule-auth/vestibule/internal/middleware"
	"github.com/vestibule-auth/vestibule/internal/models"
	"github.com/vestibule-auth/vestibule/internal/repositories"
	"github.com/vestibule-auth/vestibule/internal/routes"
	"github.com/vestibule-auth/vestibule/internal/services"
	"github.com/vestibule-auth/vestibule/internal/session"
	pkgauth "github.com/vestibule-auth/vestibule/pkg/auth"
	pkghttp "github.com/vestibule-auth/vestibule/pkg/http"
	pkglogger "github.com/vestibule-auth/vestibule/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	accountRepo := repositories.NewAccountRepository(db)

	// Session type configuration
	sessionConfig := session.NewConfig(
		session.Schema{
			LoginField: "login",
			EmailField: "email",
			Columns:    models.AllColumns(),
		},
		session.Options{
			LoginField:                     cfg.Session.LoginField,
			PasswordField:                  cfg.Session.PasswordField,
			FindByLoginMethod:              cfg.Session.FindByLoginMethod,
			VerifyPasswordMethod:           cfg.Session.VerifyPasswordMethod,
			GeneralizeCredentialsErrors:    cfg.Session.GeneralizeCredentialsErrors,
			GeneralCredentialsErrorMessage: cfg.Session.GeneralCredentialsErrorMessage,
			LastRequestAtThreshold:         cfg.Session.LastRequestAtThreshold,
		},
	)

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	// Timing delay for auth security
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs: cfg.Auth.TimingDelayJitter,
	})

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Initialize services
	loginService := services.NewLoginService(
		accountRepo,
		sessionConfig,
		tokenManager,
		timingDelay,
		logger,
		auditLogger,
	)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	authHandler := handlers.NewAuthHandler(loginService, ipConfig, logger)

	// Bootstrap first account if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureSeedAccount(ctx, accountRepo, logger); err != nil {
		logger.Error("failed to ensure seed account", slog.Any("error", err))
	}
	cancel()

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(cfg.Server.Env))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, tokenManager, loginService)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
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

// ensureSeedAccount creates the first account if SEED_LOGIN, SEED_EMAIL
// and SEED_PASSWORD are set
func ensureSeedAccount(ctx context.Context, accountRepo *repositories.AccountRepository, logger *slog.Logger) error {
	seedLogin := os.Getenv("SEED_LOGIN")
	seedEmail := os.Getenv("SEED_EMAIL")
	seedPassword := os.Getenv("SEED_PASSWORD")

	if seedLogin == "" || seedEmail == "" || seedPassword == "" {
		logger.Info("no SEED_LOGIN, SEED_EMAIL or SEED_PASSWORD set, skipping seed account creation")
		return nil
	}

	// Check if the account already exists
	_, err := accountRepo.FindByLogin(ctx, session.FindBySmartCaseLogin, seedLogin)
	if err == nil {
		logger.Info("seed account already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if seed account exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	acct := &models.Account{
		Login:        seedLogin,
		Email:        seedEmail,
		PasswordHash: hashedPassword,
	}

	if _, err := accountRepo.Create(ctx, acct); err != nil {
		return fmt.Errorf("failed to create seed account: %w", err)
	}

	logger.Info("seed account created successfully")
	return nil
}
