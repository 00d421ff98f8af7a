// Package worker runs background jobs outside the request path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/settlement"
)

// PendingLister lists settlements awaiting on-chain confirmation.
type PendingLister interface {
	ListPendingSettlements(ctx context.Context, limit int) ([]*models.Settlement, error)
}

// Confirmer settles a pending settlement once its transaction is confirmed.
type Confirmer interface {
	ConfirmOnChain(ctx context.Context, settlementID, txRef string) (*settlement.VerificationResult, error)
}

// Sweeper re-checks payment_pending settlements with the oracle so they
// complete even when no one asks for a refresh.
type Sweeper struct {
	pending   PendingLister
	confirmer Confirmer
	batchSize int
	timeout   time.Duration
}

// NewSweeper creates a Sweeper.
func NewSweeper(pending PendingLister, confirmer Confirmer) *Sweeper {
	return &Sweeper{
		pending:   pending,
		confirmer: confirmer,
		batchSize: 100,
		timeout:   time.Minute,
	}
}

// Sweep checks one batch of pending settlements and reports how many were
// settled. Individual failures are logged and skipped.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	pending, err := s.pending.ListPendingSettlements(ctx, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending settlements: %w", err)
	}

	settled := 0
	for _, p := range pending {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}

		result, err := s.confirmer.ConfirmOnChain(ctx, p.ID, p.TxRef)
		switch {
		case errors.Is(err, apperror.ErrInvalidStatus):
			// Settled or marked external since it was listed.
			continue
		case err != nil:
			slog.Warn("Sweep confirmation failed", "settlement_id", p.ID, "error", err)
			continue
		}
		if result.Status() == models.StatusSettledOnchain {
			settled++
		}
	}

	if len(pending) > 0 {
		slog.Info("Pending settlements swept", "checked", len(pending), "settled", settled)
	}
	return settled, nil
}

// Start schedules Sweep on a cron schedule such as "@every 1m". Overlapping
// runs are skipped. The caller stops the returned scheduler.
func (s *Sweeper) Start(schedule string) (*cron.Cron, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			slog.Error("Sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	c.Start()
	slog.Info("Pending settlement sweeper started", "schedule", schedule)
	return c, nil
}

// cronLogger routes cron's logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
