package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/metrics"
)

// callerSlot is filled in by RequireAuth so interceptors running outside it
// can still report the caller.
type callerSlot struct {
	userID string
}

const callerSlotKey contextKey = "caller_slot"

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, caller, duration and outcome, and records it in the
// RPC metrics. It should be the outermost interceptor.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			slot := &callerSlot{userID: GetUserID(ctx)}

			resp, err := next(context.WithValue(ctx, callerSlotKey, slot), req)

			logRPC(req.Spec().Procedure, slot.userID, time.Since(start), err)
			return resp, err
		}
	}
}

func logRPC(procedure, userID string, elapsed time.Duration, err error) {
	attrs := []any{
		"procedure", procedure,
		"user_id", userID,
		"duration_ms", elapsed.Milliseconds(),
	}

	if err == nil {
		metrics.ObserveRPC(procedure, "ok", elapsed)
		slog.Info("RPC ok", attrs...)
		return
	}

	code := connect.CodeOf(err)
	metrics.ObserveRPC(procedure, code.String(), elapsed)

	var connectErr *connect.Error
	if errors.As(err, &connectErr) && code != connect.CodeInternal && code != connect.CodeUnknown {
		attrs = append(attrs, "code", code, "error", connectErr.Message())
		if kind := connectErr.Meta().Get(apperror.KindHeader); kind != "" {
			attrs = append(attrs, "error_kind", kind)
		}
		slog.Warn("RPC error", attrs...)
		return
	}
	slog.Error("RPC error", append(attrs, "error", err)...)
}
