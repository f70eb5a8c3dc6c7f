package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/davr-ledger/davr-ledger/internal/app"
	"github.com/davr-ledger/davr-ledger/internal/notify"
	"github.com/davr-ledger/davr-ledger/internal/periods"
	"github.com/davr-ledger/davr-ledger/internal/platform/db"
	"github.com/davr-ledger/davr-ledger/internal/reminders"
	"github.com/davr-ledger/davr-ledger/internal/transactions"
	"github.com/davr-ledger/davr-ledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var notifier reminders.Notifier
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken)
		if err != nil {
			logger.Error("init telegram notifier", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = tg
	} else {
		logger.Info("no telegram token configured, logging notifications instead")
		notifier = notify.NewLogNotifier(logger)
	}

	periodService := periods.NewService(periods.NewRepository(pool))
	recorder := transactions.NewService(transactions.NewRepository(pool), periodService, nil)
	reminderService := reminders.NewService(reminders.NewRepository(pool), periodService, recorder, notifier, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Location:  loc,
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeReminderScan, Handler: jobs.NewReminderScanHandler(reminderService, loc, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "* * * * *", Task: jobs.NewReminderScanTask(), Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
