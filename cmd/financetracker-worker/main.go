package main

import (
	"context"
	"errors"
	"os"
	"time"

	"financetracker/internal/amqp"
	"financetracker/internal/backend"
	"financetracker/internal/cache"
	"financetracker/internal/cli"
	"financetracker/internal/log"
	"financetracker/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()

	boot := log.New(log.DefaultConfig())
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		boot.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger, err := cli.SetupLogger(cfg, log.ComponentWorker)
	if err != nil {
		boot.Error("Failed to setup logging", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Starting financetracker-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQP.URL == "" {
		logger.Error("AMQP URL is required by the worker")
		os.Exit(1)
	}

	app, err := cli.NewApp(context.Background(), cfg, logger, backend.DialAMQP)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err)
		os.Exit(1)
	}

	consumer, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		_ = app.Close()
		os.Exit(1)
	}
	consumer.SetLogger(logger)

	cacheManager := cache.NewManager(logger)
	var invalidator worker.Invalidator
	if app.Backend.Cached != nil {
		cacheManager.Register(app.Backend.Cached)
		invalidator = app.Backend.Cached
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	ctx, done := cli.GracefulShutdown(runCtx, logger, shutdownTimeout, func() {
		cacheManager.Stop()
		if err := consumer.Close(); err != nil {
			logger.Warn("Failed to close AMQP consumer", log.FieldError, err)
		}
		if err := app.Close(); err != nil {
			logger.Warn("Failed to close backend", log.FieldError, err)
		}
	})

	if cfg.Worker.CacheSweepInterval > 0 && app.Backend.Cached != nil {
		cacheManager.Start(ctx, cfg.Worker.CacheSweepInterval)
	}

	revalidator := worker.NewRevalidationWorker(app.Tracker, invalidator, logger)

	// Catch up on catalog changes made while the worker was down.
	if _, _, err := app.Tracker.Revalidate(ctx); err != nil {
		logger.Error("Startup revalidation failed", log.FieldError, err)
	}

	if cfg.Worker.RevalidateInterval > 0 {
		go revalidator.RunPeriodic(ctx, cfg.Worker.RevalidateInterval)
		logger.Info("Periodic revalidation enabled", "interval", cfg.Worker.RevalidateInterval)
	}

	go func() {
		err := consumer.ConsumeSlotChanges(ctx, revalidator.HandleSlotChanged)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
			stop()
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
