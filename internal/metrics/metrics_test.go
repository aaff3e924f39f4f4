package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/event"
)

func TestEventMetricsCollector_Transitions(t *testing.T) {
	bus := event.NewMemoryBus()
	require.NoError(t, NewEventMetricsCollector().Register(bus))

	before := testutil.ToFloat64(DrawTransitions.WithLabelValues("PENDING", "IN_PROGRESS"))
	publishedBefore := testutil.ToFloat64(EventsPublished.WithLabelValues(string(event.DrawStarted)))

	draw := &domain.Draw{ID: uuid.New(), Status: domain.DrawStatusInProgress}
	require.NoError(t, bus.Publish(context.Background(),
		event.NewDrawTransitionEvent(event.DrawStarted, draw, domain.DrawStatusPending, "tester")))

	assert.Equal(t, before+1, testutil.ToFloat64(DrawTransitions.WithLabelValues("PENDING", "IN_PROGRESS")))
	assert.Equal(t, publishedBefore+1, testutil.ToFloat64(EventsPublished.WithLabelValues(string(event.DrawStarted))))
}

func TestEventMetricsCollector_Verified(t *testing.T) {
	c := NewEventMetricsCollector()
	before := testutil.ToFloat64(VerificationOutcomes.WithLabelValues("VERIFIED"))

	result := &domain.DrawResult{DrawID: uuid.New(), VerificationStatus: domain.VerificationVerified}
	require.NoError(t, c.HandleEvent(context.Background(), event.NewDrawVerifiedEvent(result)))

	assert.Equal(t, before+1, testutil.ToFloat64(VerificationOutcomes.WithLabelValues("VERIFIED")))
}

func TestEventMetricsCollector_BadPayloadIgnored(t *testing.T) {
	c := NewEventMetricsCollector()

	err := c.HandleEvent(context.Background(), event.Event{Type: event.DrawVerified, Payload: make(chan int)})
	assert.NoError(t, err)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/draws/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/draws/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/draws/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/draws/{id}", "418")))
}

func TestMiddleware_SilentHandlerCountsAsOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/v1/draws", func(http.ResponseWriter, *http.Request) {})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/draws", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/draws", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/draws", "200")))
}
