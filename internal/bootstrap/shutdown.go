package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/scheduler"
	"github.com/osse101/QuPot_Go/internal/server"
	"github.com/osse101/QuPot_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil members are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	VerificationWorker *worker.VerificationWorker
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	Storage            *Storage
}

// GracefulShutdown stops the application in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and verification retries (no new background work)
// 3. Worker pool (cancel and wait for in-flight jobs)
// 4. Event publisher (flush pending events)
// 5. Storage
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}

	if components.VerificationWorker != nil {
		if err := components.VerificationWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgVerificationWorkerFailed, "error", err)
		}
	}

	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	// Publisher last among the producers so pending events are flushed
	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Storage != nil {
		components.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}
