package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"

	"github.com/mmynk/splitogram/internal/metrics"
)

// DefaultTonAPIURL is the public TonAPI testnet endpoint.
const DefaultTonAPIURL = "https://testnet.tonapi.io"

// TonAPIConfig configures a TonAPI client.
type TonAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// HTTPClient is optional; a client with Timeout is used otherwise.
	HTTPClient *http.Client

	// ConsecutiveFailures trips the breaker. Defaults to 5.
	ConsecutiveFailures uint32
	// OpenFor is how long the breaker rejects calls once tripped. Defaults to 30s.
	OpenFor time.Duration
}

// TonAPI verifies TON transactions through the TonAPI REST service.
type TonAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

var _ Verifier = (*TonAPI)(nil)

// NewTonAPI creates a TonAPI client guarded by a circuit breaker.
func NewTonAPI(cfg TonAPIConfig) *TonAPI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTonAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.OpenFor <= 0 {
		cfg.OpenFor = 30 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	failures := cfg.ConsecutiveFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tonapi",
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Oracle circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &TonAPI{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
		breaker: breaker,
	}
}

// Submit broadcasts a BOC. TonAPI usually answers with an empty body, in
// which case the reference is empty and the caller polls later.
func (t *TonAPI) Submit(ctx context.Context, blob string) (string, error) {
	body, err := json.Marshal(map[string]string{"boc": blob})
	if err != nil {
		return "", fmt.Errorf("failed to encode message: %w", err)
	}

	result, err := t.call(ctx, "submit", func() (any, error) {
		status, payload, err := t.do(ctx, http.MethodPost, "/v2/blockchain/message", body)
		if err != nil {
			return nil, err
		}
		if status < 200 || status >= 300 {
			return nil, fmt.Errorf("send message: unexpected status %d", status)
		}
		return gjson.GetBytes(payload, "hash").String(), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// CheckConfirmed looks the transaction up by hash. A missing transaction is
// "not confirmed", not an error.
func (t *TonAPI) CheckConfirmed(ctx context.Context, ref string) (bool, error) {
	result, err := t.call(ctx, "check", func() (any, error) {
		status, payload, err := t.do(ctx, http.MethodGet, "/v2/blockchain/transactions/"+url.PathEscape(ref), nil)
		if err != nil {
			return nil, err
		}
		switch {
		case status == http.StatusNotFound:
			return false, nil
		case status < 200 || status >= 300:
			return nil, fmt.Errorf("get transaction: unexpected status %d", status)
		}

		tx := gjson.ParseBytes(payload)
		if tx.Get("hash").String() != ref {
			return false, nil
		}
		if tx.Get("aborted").Bool() || (tx.Get("success").Exists() && !tx.Get("success").Bool()) {
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// call runs fn through the breaker and records the outcome.
func (t *TonAPI) call(ctx context.Context, op string, fn func() (any, error)) (any, error) {
	start := time.Now()
	result, err := t.breaker.Execute(fn)
	metrics.ObserveOracleCall(op, outcome(err), time.Since(start))

	if err == nil {
		return result, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: circuit breaker %s", ErrUnavailable, t.breaker.State())
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (t *TonAPI) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "error"
	}
}
