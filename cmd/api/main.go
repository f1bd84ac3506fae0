package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/repositories"
	"finance-ledger/internal/router"
	"finance-ledger/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	userRepo := repositories.NewUserRepository(db.DB)
	accountRepo := repositories.NewAccountRepository(db.DB)
	accountTypeRepo := repositories.NewAccountTypeRepository(db.DB)
	categoryRepo := repositories.NewCategoryRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	txManager := repositories.NewTransactionManager(db.DB)

	metrics := services.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	passwordService := services.NewPasswordService(cfg.Security.BCryptCost, cfg.Security.PasswordMinLength)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(userRepo, passwordService, tokenService, metrics, logger)
	ledger := services.NewLedgerService(txManager, transactionRepo, metrics, services.NewAuditLogger(logger), logger)
	exporter := services.NewExportService(ledger)
	accountService := services.NewAccountService(accountRepo, accountTypeRepo, transactionRepo, logger)
	categoryService := services.NewCategoryService(categoryRepo)
	accountTypeService := services.NewAccountTypeService(accountTypeRepo)

	e := router.NewEcho(cfg, logger)
	r := &router.Router{
		AuthHandler:        handlers.NewAuthHandler(authService),
		AccountHandler:     handlers.NewAccountHandler(accountService),
		CatalogHandler:     handlers.NewCatalogHandler(categoryService, accountTypeService),
		TransactionHandler: handlers.NewTransactionHandler(ledger, exporter),
		HealthHandler:      handlers.NewHealthCheckHandler(db.DB),
		AuthMW:             middleware.RequireAuth(tokenService),
		RateLimitMW:        middleware.RateLimiter(ctx, cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst),
		MetricsHandler:     promhttp.Handler(),
	}
	r.RegisterRoutes(e)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "environment", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}
