package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/logger"
	"github.com/osse101/QuPot_Go/internal/validation"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BlockchainConfig controls how the client reaches the blockchain service
type BlockchainConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	CacheSize  int
	CacheTTL   time.Duration
	// Schemas, when set, checks response bodies before they are decoded
	Schemas validation.SchemaValidator
}

// BlockchainClient anchors draw results on chain through the blockchain service.
// The transaction hash doubles as the submission id.
type BlockchainClient struct {
	baseURL    string
	httpClient httpDoer
	schemas    validation.SchemaValidator

	// terminal outcomes only; pending lookups always go to the network
	outcomes *expirable.LRU[string, domain.VerificationOutcome]
}

var _ Source = (*BlockchainClient)(nil)

// NewBlockchainClient constructs a client with an outcome cache
func NewBlockchainClient(cfg BlockchainConfig) *BlockchainClient {
	var doer httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		doer = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &BlockchainClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: doer,
		schemas:    cfg.Schemas,
		outcomes:   expirable.NewLRU[string, domain.VerificationOutcome](size, nil, ttl),
	}
}

type verifyDrawRequest struct {
	DrawID         string `json:"drawId"`
	WinningNumbers []int  `json:"winningNumbers"`
	Timestamp      string `json:"timestamp"`
	Provenance     string `json:"provenance"`
}

type verifyDrawResponse struct {
	DrawID           string `json:"drawId"`
	Verified         bool   `json:"verified"`
	BlockNumber      int64  `json:"blockNumber"`
	TransactionHash  string `json:"transactionHash"`
	VerificationTime string `json:"verificationTime"`
}

type transactionResponse struct {
	Hash        string `json:"hash"`
	BlockNumber int64  `json:"blockNumber"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
}

// Submit posts the result for verification and returns the transaction hash
func (c *BlockchainClient) Submit(ctx context.Context, drawID uuid.UUID, result *domain.DrawResult) (string, error) {
	body, err := json.Marshal(verifyDrawRequest{
		DrawID:         drawID.String(),
		WinningNumbers: result.WinningNumbers,
		Timestamp:      result.Timestamp.UTC().Format(time.RFC3339Nano),
		Provenance:     result.RandomnessProvenance,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domain.ErrVerificationUnavailable, err)
	}

	var resp verifyDrawResponse
	if err := c.do(ctx, http.MethodPost, VerifyDrawPath, body, validation.SchemaBlockchainVerifyResponse, &resp); err != nil {
		logger.FromContext(ctx).Warn(LogMsgSubmitFailed, "draw_id", drawID, "error", err)
		return "", err
	}
	if resp.TransactionHash == "" {
		return "", fmt.Errorf("%w: response missing transaction hash", domain.ErrVerificationUnavailable)
	}

	// An outright rejection is already terminal
	if !resp.Verified {
		logger.FromContext(ctx).Warn(LogMsgRejected, "draw_id", drawID, "tx", resp.TransactionHash)
		c.outcomes.Add(resp.TransactionHash, domain.VerificationOutcome{
			SubmissionID:   resp.TransactionHash,
			Verified:       false,
			AttestationRef: attestationRef(resp.TransactionHash, resp.BlockNumber),
		})
	}
	return resp.TransactionHash, nil
}

// Status looks up the transaction behind a submission
func (c *BlockchainClient) Status(ctx context.Context, submissionID string) (*domain.VerificationOutcome, error) {
	if cached, ok := c.outcomes.Get(submissionID); ok {
		return &cached, nil
	}

	var tx transactionResponse
	if err := c.do(ctx, http.MethodGet, TransactionPath+url.PathEscape(submissionID), nil, validation.SchemaBlockchainTransaction, &tx); err != nil {
		logger.FromContext(ctx).Warn(LogMsgStatusFailed, "submission_id", submissionID, "error", err)
		return nil, err
	}

	var outcome domain.VerificationOutcome
	switch tx.Status {
	case TxStatusConfirmed:
		outcome = domain.VerificationOutcome{SubmissionID: submissionID, Verified: true}
	case TxStatusFailed:
		outcome = domain.VerificationOutcome{SubmissionID: submissionID, Verified: false}
	case TxStatusPending, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown transaction status %q", domain.ErrVerificationUnavailable, tx.Status)
	}
	outcome.AttestationRef = attestationRef(submissionID, tx.BlockNumber)

	c.outcomes.Add(submissionID, outcome)
	return &outcome, nil
}

func (c *BlockchainClient) do(ctx context.Context, method, path string, body []byte, schema string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrVerificationUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVerificationUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && method == http.MethodGet:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %w", domain.ErrVerificationUnavailable, ErrUnknownSubmission)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: unexpected status %d: %s", domain.ErrVerificationUnavailable,
			resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrVerificationUnavailable, err)
	}
	if c.schemas != nil {
		if err := c.schemas.ValidateBytes(raw, schema); err != nil {
			logger.FromContext(ctx).Warn(LogMsgBadPayload, "path", path, "error", err)
			return fmt.Errorf("%w: %w", domain.ErrVerificationUnavailable, err)
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrVerificationUnavailable, err)
	}
	return nil
}

func attestationRef(hash string, block int64) string {
	if block <= 0 {
		return hash
	}
	return fmt.Sprintf("%s@%d", hash, block)
}
