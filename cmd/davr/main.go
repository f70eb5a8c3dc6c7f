package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davr-ledger/davr-ledger/internal/app"
	"github.com/davr-ledger/davr-ledger/internal/auth"
	"github.com/davr-ledger/davr-ledger/internal/ledger"
	"github.com/davr-ledger/davr-ledger/internal/owners"
	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/platform/cache"
	"github.com/davr-ledger/davr-ledger/internal/platform/db"
	"github.com/davr-ledger/davr-ledger/internal/reminders"
	"github.com/davr-ledger/davr-ledger/internal/reports"
	"github.com/davr-ledger/davr-ledger/internal/shared"
	"github.com/davr-ledger/davr-ledger/internal/transactions"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("load timezone", slog.Any("error", err))
		os.Exit(1)
	}
	clock := shared.NewClock(loc)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report cache disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)

	periodService := periods.NewService(periods.NewRepository(pool))
	recorder := transactions.NewService(transactions.NewRepository(pool), periodService, reportCache)
	reportService := reports.NewService(periodService, recorder, reportCache)
	reminderService := reminders.NewService(reminders.NewRepository(pool), periodService, recorder, nil, logger)

	ledgerService := ledger.NewService(periodService, recorder, reportService, reminderService, reportCache, clock)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	authService := auth.NewService(auth.NewRepository(pool), owners.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, cfg.AdminToken)

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		AuthHandler:   authHandler,
		AuthService:   authService,
		LedgerHandler: ledgerHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
