package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/auth"
	"github.com/mmynk/splitogram/internal/models"
)

type payload struct {
	GroupID string `json:"groupId" validate:"required"`
	Amount  int64  `json:"amount" validate:"gt=0"`
}

func okHandler(seen *context.Context) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if seen != nil {
			*seen = ctx
		}
		return connect.NewResponse(&struct{}{}), nil
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "alice", DisplayName: "Alice", TelegramID: 42})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic " + token},
		{"garbage token", "Bearer nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&payload{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			_, err := RequireAuth(jwtManager)(okHandler(nil))(context.Background(), req)
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := connect.NewRequest(&payload{})
		req.Header().Set("Authorization", "Bearer "+token)

		var seen context.Context
		_, err := RequireAuth(jwtManager)(okHandler(&seen))(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "alice", GetUserID(seen))
		identity := GetIdentity(seen)
		assert.Equal(t, "Alice", identity.DisplayName)
		assert.Equal(t, int64(42), identity.TelegramID)
	})
}

func TestGetIdentity_Fallback(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "bob")
	assert.Equal(t, &models.User{ID: "bob"}, GetIdentity(ctx))
	assert.Equal(t, "", GetUserID(context.Background()))
}

func TestValidationInterceptor(t *testing.T) {
	interceptor := ValidationInterceptor(NewValidator())

	_, err := interceptor(okHandler(nil))(context.Background(), connect.NewRequest(&payload{GroupID: "g", Amount: 1}))
	require.NoError(t, err)

	_, err = interceptor(okHandler(nil))(context.Background(), connect.NewRequest(&payload{Amount: -1}))
	require.Error(t, err)

	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr))
	assert.Equal(t, connect.CodeInvalidArgument, connectErr.Code())
	assert.Equal(t, string(apperror.KindValidation), connectErr.Meta().Get(apperror.KindHeader))
	assert.Contains(t, connectErr.Message(), "groupId is required")
	assert.Contains(t, connectErr.Message(), "amount must be greater than 0")
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)

	assert.True(t, limiter.Allow("alice"))
	assert.True(t, limiter.Allow("alice"))
	assert.False(t, limiter.Allow("alice"))
	assert.True(t, limiter.Allow("bob"), "buckets are per user")

	ctx := WithIdentity(context.Background(), &models.User{ID: "alice"})
	_, err := limiter.Interceptor()(okHandler(nil))(ctx, connect.NewRequest(&payload{}))
	assert.Equal(t, connect.CodeResourceExhausted, connect.CodeOf(err))

	unlimited := NewRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		require.True(t, unlimited.Allow("alice"))
	}
}

func TestLoggingInterceptor_SeesAuthenticatedCaller(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-test-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "carol"})
	require.NoError(t, err)

	var slot *callerSlot
	inner := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		slot, _ = ctx.Value(callerSlotKey).(*callerSlot)
		return connect.NewResponse(&struct{}{}), nil
	}

	req := connect.NewRequest(&payload{})
	req.Header().Set("Authorization", "Bearer "+token)

	handler := LoggingInterceptor()(RequireAuth(jwtManager)(inner))
	_, err = handler(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, slot)
	assert.Equal(t, "carol", slot.userID)
}
