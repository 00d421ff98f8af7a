// Package ledger reduces a group's financial events to per-member net balances.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/calculator"
	"github.com/mmynk/splitogram/internal/storage"
)

// Aggregator computes net balances from a consistent ledger snapshot.
type Aggregator struct {
	store storage.LedgerStore
}

// NewAggregator creates an Aggregator reading from the given store.
func NewAggregator(store storage.LedgerStore) *Aggregator {
	return &Aggregator{store: store}
}

// ComputeNetBalances returns one balance per group member, in join order.
// Members with no activity are present with a zero balance.
//
// The result always sums to zero; a snapshot that does not is reported as
// an internal error rather than handed to the simplifier.
func (a *Aggregator) ComputeNetBalances(ctx context.Context, groupID string) ([]calculator.MemberBalance, error) {
	return ComputeWith(ctx, a.store, groupID)
}

// ComputeWith runs the aggregation against the given store, which may be a
// transactional view.
func ComputeWith(ctx context.Context, store storage.LedgerStore, groupID string) ([]calculator.MemberBalance, error) {
	snapshot, err := store.LoadLedger(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("group %s not found", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	balances := calculator.NetBalances(snapshot)
	if err := calculator.CheckZeroSum(balances); err != nil {
		slog.Error("Ledger invariant violated", "group_id", groupID, "error", err)
		return nil, apperror.Wrap(apperror.KindInternal, err, "ledger for group %s is inconsistent", groupID)
	}

	return balances, nil
}
