// Package cli holds the start-up steps shared by cmd/financetracker and
// cmd/financetracker-worker, and the terminal styles of the CLI.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"financetracker/internal/backend"
	"financetracker/internal/config"
	"financetracker/internal/core"
	"financetracker/internal/log"
	"financetracker/internal/services"
)

// SetupLogger builds the process logger from cfg and makes it the slog default.
func SetupLogger(cfg *config.Config, component string) (*log.Logger, error) {
	lc := log.DefaultConfig()
	lc.Component = component
	if cfg != nil {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		lc.Level = level
		lc.Format = cfg.Log.Format
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads the configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App is a ready tracker over the configured backend.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Backend *backend.BackendResult
	Tracker *services.Tracker
}

// NewApp opens the configured backend and builds the tracker on top of it.
// dial may be nil to run without change events.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger, dial backend.DialFunc) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger, dial).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}
	tracker := services.NewTracker(res.Store, services.Options{
		CategoriesKey:   cfg.Slots.CategoriesKey,
		TransactionsKey: cfg.Slots.TransactionsKey,
		Mode:            core.CatalogMode(cfg.Catalog.Schema),
		Logger:          logger,
	})
	return &App{Config: cfg, Logger: logger, Backend: res, Tracker: tracker}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	if a == nil || a.Backend == nil || a.Backend.Cleanup == nil {
		return nil
	}
	return a.Backend.Cleanup()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// GracefulShutdown runs cleanup once a shutdown signal arrives or parent is
// done. The returned context is cancelled before cleanup starts, and the
// channel is closed once cleanup has finished or timed out.
func GracefulShutdown(parent context.Context, logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received",
				log.FieldOperation, log.OpShutdown,
				"signal", sig.String())
		case <-parent.Done():
			logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
		}

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is over.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
