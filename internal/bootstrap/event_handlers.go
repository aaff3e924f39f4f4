package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/metrics"
	"github.com/osse101/QuPot_Go/internal/worker"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus           event.Bus
	VerificationWorker *worker.VerificationWorker
}

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (draw transitions and verification outcomes)
// - Verification worker (submits settled draws off the request path)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.VerificationWorker != nil {
		deps.VerificationWorker.Subscribe(deps.EventBus)
		slog.Info(LogMsgVerificationWorkerReady)
	}

	return nil
}
