package randomness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/validation"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// QuantumConfig controls how the client reaches the quantum service
type QuantumConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Unique     bool
	// Schemas, when set, checks response bodies before they are decoded
	Schemas validation.SchemaValidator
}

// QuantumClient draws numbers from the quantum random number service
type QuantumClient struct {
	baseURL    string
	httpClient httpDoer
	unique     bool
	schemas    validation.SchemaValidator
	now        func() time.Time
}

var _ Source = (*QuantumClient)(nil)

// NewQuantumClient constructs a client; a nil HTTPClient gets a default with a timeout
func NewQuantumClient(cfg QuantumConfig) *QuantumClient {
	var doer httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		doer = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &QuantumClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: doer,
		unique:     cfg.Unique,
		schemas:    cfg.Schemas,
		now:        time.Now,
	}
}

type randomRequest struct {
	MinValue int  `json:"min_value"`
	MaxValue int  `json:"max_value"`
	Count    int  `json:"count"`
	Unique   bool `json:"unique"`
}

type randomResponse struct {
	Numbers   []int  `json:"numbers"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Draw requests count numbers in [min, max]
func (c *QuantumClient) Draw(ctx context.Context, count, min, max int) (*Batch, error) {
	if err := ValidateRequest(count, min, max, c.unique); err != nil {
		return nil, err
	}

	body, err := json.Marshal(randomRequest{MinValue: min, MaxValue: max, Count: count, Unique: c.unique})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrRandomnessUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+QuantumRandomPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrRandomnessUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgQuantumRequestFailed, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrRandomnessUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRange, readDetail(resp.Body))
	default:
		return nil, fmt.Errorf("%w: unexpected status %d: %s", domain.ErrRandomnessUnavailable, resp.StatusCode, readDetail(resp.Body))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrRandomnessUnavailable, err)
	}
	if c.schemas != nil {
		if err := c.schemas.ValidateBytes(raw, validation.SchemaQuantumRandomResponse); err != nil {
			logger.FromContext(ctx).Warn(LogMsgQuantumBadPayload, "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrRandomnessUnavailable, err)
		}
	}

	var payload randomResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrRandomnessUnavailable, err)
	}

	source := SourceNameQuantum
	if payload.Source != "" {
		source = SourceNameQuantum + "/" + payload.Source
	}
	batch := &Batch{
		Numbers: payload.Numbers,
		Provenance: Provenance{
			Source:      source,
			BatchID:     payload.RequestID,
			GeneratedAt: c.now().UTC(),
		},
	}
	if err := ValidateBatch(batch, count, min, max, c.unique); err != nil {
		return nil, err
	}
	return batch, nil
}

// Healthy checks the service health endpoint
func (c *QuantumClient) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+QuantumHealthPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRandomnessUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", domain.ErrRandomnessUnavailable, resp.StatusCode)
	}
	return nil
}

// readDetail extracts the FastAPI-style "detail" message, falling back to the raw body
func readDetail(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Detail != "" {
		return e.Detail
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "no detail"
	}
	return msg
}

// IsRetryable reports whether a Draw error may succeed on another attempt
func IsRetryable(err error) bool {
	return err != nil && !errors.Is(err, domain.ErrInvalidRange)
}
