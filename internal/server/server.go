// Package server provides the main server initialization and run logic.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/uninorte/feria-gamer/internal/api"
	"github.com/uninorte/feria-gamer/internal/api/handlers"
	"github.com/uninorte/feria-gamer/internal/auth"
	"github.com/uninorte/feria-gamer/internal/config"
	"github.com/uninorte/feria-gamer/internal/db"
	"github.com/uninorte/feria-gamer/internal/logger"
	"github.com/uninorte/feria-gamer/internal/mailer"
	"github.com/uninorte/feria-gamer/internal/queue"
	"github.com/uninorte/feria-gamer/internal/service"
	"github.com/uninorte/feria-gamer/internal/store"
	"github.com/uninorte/feria-gamer/internal/worker"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// shutdownTimeout bounds graceful HTTP shutdown
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration options.
type Config struct {
	Port       int    // Port to run the server on (0 = use config default)
	Mode       string // Run mode: server, worker, or both
	Version    string // Version string to report
	ConfigFile string // Explicit config file; empty searches the default paths
}

// Run starts the server with the given configuration and blocks until the
// context is canceled or a component fails.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Version != "" {
		handlers.Version = cfg.Version
	}

	appCfg, err := config.LoadFrom(cfg.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Port != 0 {
		appCfg.Server.Port = cfg.Port
	}

	logger.Init(appCfg.Log.Format, appCfg.Log.Level)
	slog.Info("Starting Feria Gamer server", "version", cfg.Version, "mode", appCfg.Server.Mode)

	mode := cfg.Mode
	if mode == "" {
		mode = "both"
	}
	runServer := mode == "server" || mode == "both"
	runWorker := mode == "worker" || mode == "both"
	if !runServer && !runWorker {
		return fmt.Errorf("invalid mode %q: valid modes are server, worker, both", mode)
	}

	database, err := Open(appCfg)
	if err != nil {
		return err
	}

	hasher := auth.NewHasher(appCfg.Auth.BcryptCost)
	if err := db.CreateDefaultAdmin(ctx, database, hasher); err != nil {
		return fmt.Errorf("failed to create default admin user: %w", err)
	}

	jobQueue, err := createQueue(appCfg, database)
	if err != nil {
		return fmt.Errorf("failed to initialize job queue: %w", err)
	}
	defer jobQueue.Close()
	slog.Info("Job queue initialized", "type", appCfg.Queue.Type)
	if _, ok := jobQueue.(*queue.MemoryQueue); ok && mode != "both" {
		slog.Warn("Memory queue is process-local; jobs only reach a worker in the same process", "mode", mode)
	}

	g, gctx := errgroup.WithContext(ctx)

	if runWorker {
		m, err := mailer.New(appCfg.Mail)
		if err != nil {
			return fmt.Errorf("failed to initialize mailer: %w", err)
		}
		w := worker.New(database, jobQueue, m, slog.Default(), appCfg.Mail.Workers, appCfg.Mail.MaxAttempts)
		// Valkey keeps its list across restarts; only the memory buffer is lost
		if _, ok := jobQueue.(*queue.MemoryQueue); ok {
			if _, err := w.Recover(ctx); err != nil {
				slog.Error("Failed to recover unfinished mail jobs", "error", err)
			}
		}

		g.Go(func() error {
			if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("worker: %w", err)
			}
			return nil
		})
	}

	if runServer {
		tokens := auth.NewTokenIssuer(appCfg.Auth.JWTSecret, appCfg.Auth.TokenTTL, appCfg.Auth.Issuer)
		authSvc, err := service.NewAuthService(store.New(database), hasher, tokens)
		if err != nil {
			return fmt.Errorf("failed to initialize auth service: %w", err)
		}

		router := api.NewRouter(appCfg, database, jobQueue, tokens, authSvc)
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", appCfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			slog.Info("Server listening", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			slog.Info("Server stopped")
			return nil
		})
	}

	err = g.Wait()
	slog.Info("Feria Gamer exited")
	return err
}

// RunWithSignalHandling starts the server and stops it on SIGINT or SIGTERM.
func RunWithSignalHandling(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Run(ctx, cfg)
}

// Open connects to the configured database and applies migrations.
func Open(cfg *config.Config) (*gorm.DB, error) {
	// Propagate app log level to database if not explicitly set
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = cfg.Log.Level
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Database initialized", "driver", cfg.Database.Driver)

	if err := db.Migrate(database); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations completed")
	return database, nil
}

// createQueue creates a queue based on configuration.
func createQueue(cfg *config.Config, database *gorm.DB) (queue.Queue, error) {
	switch cfg.Queue.Type {
	case "", "memory":
		return queue.NewMemoryQueue(cfg.Queue.BufferSize), nil
	case "valkey":
		if cfg.Queue.ValkeyAddr == "" {
			return nil, fmt.Errorf("valkey address is required when queue type is valkey")
		}
		return queue.NewValkeyQueue(cfg.Queue.ValkeyAddr, database)
	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: memory, valkey)", cfg.Queue.Type)
	}
}
