package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTonAPIServer(t *testing.T, handler http.HandlerFunc) *TonAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewTonAPI(TonAPIConfig{
		BaseURL:             srv.URL,
		APIKey:              "secret",
		Timeout:             time.Second,
		ConsecutiveFailures: 2,
		OpenFor:             time.Minute,
	})
}

func TestTonAPI_CheckConfirmed(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"confirmed", http.StatusOK, `{"hash":"abc","success":true,"aborted":false}`, true},
		{"hash mismatch", http.StatusOK, `{"hash":"other","success":true}`, false},
		{"aborted", http.StatusOK, `{"hash":"abc","aborted":true}`, false},
		{"unsuccessful", http.StatusOK, `{"hash":"abc","success":false}`, false},
		{"not found", http.StatusNotFound, `{"error":"entity not found"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTonAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.Equal(t, "/v2/blockchain/transactions/abc", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			got, err := api.CheckConfirmed(context.Background(), "abc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTonAPI_Submit(t *testing.T) {
	api := newTonAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/blockchain/message", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "te6cc", body["boc"])
		w.WriteHeader(http.StatusOK)
	})

	ref, err := api.Submit(context.Background(), "te6cc")
	require.NoError(t, err)
	assert.Empty(t, ref)
}

func TestTonAPI_FailuresAreUnavailable(t *testing.T) {
	var calls atomic.Int32
	api := newTonAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 2; i++ {
		_, err := api.CheckConfirmed(context.Background(), "abc")
		assert.ErrorIs(t, err, ErrUnavailable)
	}

	// Breaker is open now: the server is not called again.
	_, err := api.CheckConfirmed(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTonAPI_Timeout(t *testing.T) {
	api := newTonAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := api.CheckConfirmed(ctx, "abc")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDisabled(t *testing.T) {
	var v Verifier = Disabled{}

	_, err := v.Submit(context.Background(), "boc")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = v.CheckConfirmed(context.Background(), "ref")
	assert.ErrorIs(t, err, ErrUnavailable)
}
