package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitogram/internal/models"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)

	token, err := m.Generate(&models.User{ID: "u1", DisplayName: "Alice", Username: "alice", TelegramID: 42})
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Alice", claims.User().DisplayName)
	assert.Equal(t, int64(42), claims.User().TelegramID)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour)
	token, err := m.Generate(&models.User{ID: "u1", DisplayName: "Alice"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-another-secret!!!", time.Hour)
		_, err := other.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("0123456789abcdef0123456789abcdef", -time.Minute)
		old, err := expired.Generate(&models.User{ID: "u1"})
		require.NoError(t, err)
		_, err = m.Validate(old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := m.Generate(&models.User{})
		assert.Error(t, err)
	})
}
