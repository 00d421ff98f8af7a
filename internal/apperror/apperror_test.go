package apperror

import (
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	err := fmt.Errorf("derive: %w", NoOutstandingDebt("you owe nothing"))

	assert.ErrorIs(t, err, ErrNoOutstandingDebt)
	assert.NotErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, KindNoOutstandingDebt, KindOf(err))
	assert.Equal(t, "you owe nothing", DetailOf(err))
}

func TestUncategorized(t *testing.T) {
	err := errors.New("disk on fire")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "internal error", DetailOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("sum is 3")
	err := Wrap(KindInternal, cause, "ledger inconsistent")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "sum is 3")
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		code connect.Code
		kind Kind
	}{
		{NotFound("settlement not found"), connect.CodeNotFound, KindNotFound},
		{NotMember("no"), connect.CodePermissionDenied, KindNotMember},
		{NotInvolved("no"), connect.CodePermissionDenied, KindNotInvolved},
		{NotDebtor("no"), connect.CodePermissionDenied, KindNotDebtor},
		{NotCreditor("no"), connect.CodePermissionDenied, KindNotCreditor},
		{InvalidStatus("done"), connect.CodeFailedPrecondition, KindInvalidStatus},
		{NoOutstandingDebt("none"), connect.CodeFailedPrecondition, KindNoOutstandingDebt},
		{Validation("bad"), connect.CodeInvalidArgument, KindValidation},
		{New(KindOracleUnavailable, "later"), connect.CodeUnavailable, KindOracleUnavailable},
		{errors.New("boom"), connect.CodeInternal, KindInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := ToConnectError(tt.err)
			assert.Equal(t, tt.code, got.Code())
			assert.Equal(t, string(tt.kind), got.Meta().Get(KindHeader))
		})
	}

	t.Run("internal detail is hidden", func(t *testing.T) {
		got := ToConnectError(fmt.Errorf("query failed: %w", errors.New("SQLITE_BUSY")))
		assert.Equal(t, "internal error", got.Message())
	})

	t.Run("connect errors pass through", func(t *testing.T) {
		in := connect.NewError(connect.CodeUnauthenticated, errors.New("who are you"))
		assert.Same(t, in, ToConnectError(in))
	})
}
