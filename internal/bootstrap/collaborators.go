package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/QuPot_Go/internal/config"
	"github.com/osse101/QuPot_Go/internal/handler"
	"github.com/osse101/QuPot_Go/internal/randomness"
	"github.com/osse101/QuPot_Go/internal/validation"
	"github.com/osse101/QuPot_Go/internal/verification"
)

// NewRandomnessSource builds the configured randomness source behind a rate
// limiter. The quantum client also yields a readiness checker; the simulator does not.
func NewRandomnessSource(cfg *config.Config, schemas validation.SchemaValidator) (randomness.Source, handler.HealthChecker, error) {
	var (
		src     randomness.Source
		checker handler.HealthChecker
	)

	switch cfg.RandomnessProvider {
	case config.ProviderSimulator:
		src = randomness.NewSimulator(uint64(time.Now().UnixNano()), cfg.RandomnessUnique)
	case config.ProviderQuantum:
		client := randomness.NewQuantumClient(randomness.QuantumConfig{
			BaseURL:    cfg.QuantumServiceURL,
			HTTPClient: &http.Client{Timeout: cfg.RandomnessTimeout},
			Unique:     cfg.RandomnessUnique,
			Schemas:    schemas,
		})
		src = client
		checker = handler.HealthCheckFunc(client.Healthy)
	default:
		return nil, nil, fmt.Errorf("%s %q", ErrMsgUnknownProvider, cfg.RandomnessProvider)
	}

	slog.Info(LogMsgRandomnessInitialized,
		"provider", cfg.RandomnessProvider,
		"unique", cfg.RandomnessUnique,
		"rate_limit", cfg.QuantumRateLimit)

	return randomness.NewRateLimitedSource(src, cfg.QuantumRateLimit, cfg.QuantumRateBurst), checker, nil
}

// NewVerificationSource builds the configured verification source
func NewVerificationSource(cfg *config.Config, schemas validation.SchemaValidator) (verification.Source, error) {
	var src verification.Source

	switch cfg.VerificationProvider {
	case config.ProviderSimulator:
		src = verification.NewSimulator(cfg.VerificationAutoVerify)
	case config.ProviderBlockchain:
		src = verification.NewBlockchainClient(verification.BlockchainConfig{
			BaseURL:    cfg.BlockchainServiceURL,
			HTTPClient: &http.Client{Timeout: cfg.VerificationTimeout},
			CacheSize:  cfg.VerificationCacheSize,
			CacheTTL:   cfg.VerificationCacheTTL,
			Schemas:    schemas,
		})
	default:
		return nil, fmt.Errorf("%s %q", ErrMsgUnknownProvider, cfg.VerificationProvider)
	}

	slog.Info(LogMsgVerificationInitialized, "provider", cfg.VerificationProvider)
	return src, nil
}
