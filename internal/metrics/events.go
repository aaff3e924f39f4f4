package metrics

import (
	"context"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
	"github.com/osse101/QuPot_Go/internal/logger"
)

// EventMetricsCollector subscribes to draw events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all draw events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.DrawStarted,
		event.DrawCompleted,
		event.DrawCancelled,
		event.DrawVerified,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.DrawStarted, event.DrawCancelled:
		payload, err := event.DecodePayload[domain.DrawTransitionPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		DrawTransitions.WithLabelValues(string(payload.From), string(payload.To)).Inc()

	case event.DrawCompleted:
		DrawTransitions.WithLabelValues(string(domain.DrawStatusInProgress), string(domain.DrawStatusCompleted)).Inc()

	case event.DrawVerified:
		payload, err := event.DecodePayload[domain.DrawVerifiedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		VerificationOutcomes.WithLabelValues(string(payload.Status)).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
