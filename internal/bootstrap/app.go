// Package bootstrap assembles the draw service from configuration: storage,
// collaborators, event system, background verification and the HTTP server.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/QuPot_Go/internal/config"
	"github.com/osse101/QuPot_Go/internal/handler"
	"github.com/osse101/QuPot_Go/internal/lottery"
	"github.com/osse101/QuPot_Go/internal/scheduler"
	"github.com/osse101/QuPot_Go/internal/server"
	"github.com/osse101/QuPot_Go/internal/validation"
	"github.com/osse101/QuPot_Go/internal/worker"
)

// App is a fully wired draw service
type App struct {
	Server  *server.Server
	Service lottery.Service

	components ShutdownComponents
}

// New wires every component described by cfg and starts the background
// workers. The HTTP server is not listening until Run is called. On error,
// anything already started is shut down again.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	var c ShutdownComponents
	defer func() {
		if err != nil {
			GracefulShutdown(context.WithoutCancel(ctx), c)
		}
	}()

	storage, err := InitializeStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Storage = storage

	schemas := validation.NewSchemaValidator()
	rng, rngChecker, err := NewRandomnessSource(cfg, schemas)
	if err != nil {
		return nil, err
	}
	verifier, err := NewVerificationSource(cfg, schemas)
	if err != nil {
		return nil, err
	}

	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		return nil, err
	}
	c.ResilientPublisher = publisher

	svc := lottery.NewService(storage.Draws, rng, verifier, publisher, lottery.RequireCaller{}, lottery.Config{
		MaxNumbersPerDraw:     cfg.MaxNumbersPerDraw,
		RandomnessMaxAttempts: cfg.RandomnessMaxAttempts,
		RandomnessBackoff:     cfg.RandomnessBackoff,
		RandomnessTimeout:     cfg.RandomnessTimeout,
		VerificationTimeout:   cfg.VerificationTimeout,
	})

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start()
	c.WorkerPool = pool

	verificationWorker := worker.NewVerificationWorker(svc, pool, cfg.VerificationMaxRetries, cfg.VerificationRetryDelay)
	c.VerificationWorker = verificationWorker

	if err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus:           bus,
		VerificationWorker: verificationWorker,
	}); err != nil {
		return nil, err
	}

	sched := scheduler.New(pool)
	if cfg.VerificationSweepInterval > 0 {
		sched.Schedule(VerificationSweepJobName, cfg.VerificationSweepInterval, true, worker.NewVerificationSweep(svc, 0))
		slog.Info(LogMsgVerificationSweepScheduled, "interval", cfg.VerificationSweepInterval)
	}
	c.Scheduler = sched

	checkers := map[string]handler.HealthChecker{}
	if storage.Pool != nil {
		checkers[CheckerDatabase] = storage.Pool
	}
	if rngChecker != nil {
		checkers[CheckerRandomness] = rngChecker
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		Checkers:       checkers,
		Deployment: handler.Deployment{
			Service:      cfg.ServiceName,
			Release:      cfg.Version,
			Environment:  cfg.Environment,
			Storage:      cfg.StorageBackend,
			Randomness:   cfg.RandomnessProvider,
			Verification: cfg.VerificationProvider,
		},
	}, svc)
	c.Server = srv

	return &App{Server: srv, Service: svc, components: c}, nil
}

// Run serves HTTP until ctx is cancelled or the server fails, then shuts
// everything down within shutdownTimeout.
func (a *App) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- a.Server.Start() }()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info(LogMsgShutdownSignal)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error(LogMsgServerFailed, "error", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	a.Shutdown(shutdownCtx)
	return runErr
}

// Shutdown stops every component; see GracefulShutdown for the order
func (a *App) Shutdown(ctx context.Context) {
	GracefulShutdown(ctx, a.components)
}
