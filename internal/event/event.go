package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/QuPot_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Draw lifecycle event types
const (
	DrawStarted   Type = domain.EventTypeDrawStarted
	DrawCompleted Type = domain.EventTypeDrawCompleted
	DrawCancelled Type = domain.EventTypeDrawCancelled
	DrawVerified  Type = domain.EventTypeDrawVerified
)

// NewDrawCompletedEvent creates the settlement event for a persisted result
func NewDrawCompletedEvent(result *domain.DrawResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DrawCompleted,
		Payload: domain.DrawCompletedPayloadV1{
			DrawID:         result.DrawID.String(),
			WinningNumbers: append([]int(nil), result.WinningNumbers...),
			Provenance:     result.RandomnessProvenance,
			SettledAt:      result.Timestamp,
		},
		Metadata: Metadata{
			MetadataKeyPublishedAt: time.Now().UTC().Format(time.RFC3339Nano),
		},
	}
}

// NewDrawTransitionEvent creates a start or cancel event
func NewDrawTransitionEvent(eventType Type, draw *domain.Draw, from domain.DrawStatus, caller string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: domain.DrawTransitionPayloadV1{
			DrawID: draw.ID.String(),
			From:   from,
			To:     draw.Status,
			Caller: caller,
		},
	}
}

// NewDrawVerifiedEvent creates the event published when verification reaches a terminal status
func NewDrawVerifiedEvent(result *domain.DrawResult) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DrawVerified,
		Payload: domain.DrawVerifiedPayloadV1{
			DrawID:         result.DrawID.String(),
			Status:         result.VerificationStatus,
			SubmissionID:   result.SubmissionID,
			AttestationRef: result.AttestationRef,
		},
	}
}

// ErrHandlerPanic wraps a value recovered from a panicking handler
var ErrHandlerPanic = errors.New("event handler panicked")

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every handler subscribed to the event type, in subscription
// order, on the caller's goroutine. A failing or panicking handler does not
// stop the rest; their errors are joined, each tagged with its position.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for i, h := range handlers {
		if err := invoke(ctx, h, event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", event.Type, i, err))
		}
	}
	return errors.Join(errs...)
}

func invoke(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return h(ctx, event)
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
