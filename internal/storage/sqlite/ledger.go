package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitogram/internal/models"
)

// LoadLedger reads every balance-moving event of a group inside a single
// transaction so the totals describe one point in time.
func (s *SQLiteStore) LoadLedger(ctx context.Context, groupID string) (*models.Ledger, error) {
	ledger := &models.Ledger{
		GroupID:  groupID,
		Payments: make(map[string]int64),
		Shares:   make(map[string]int64),
	}

	err := s.transact(ctx, func(tx *SQLiteStore) error {
		if _, err := tx.GetGroup(ctx, groupID); err != nil {
			return err
		}

		members, err := tx.ListMembers(ctx, groupID)
		if err != nil {
			return err
		}
		ledger.Members = members

		if err := tx.sumInto(ctx, ledger.Payments,
			`SELECT paid_by, SUM(amount) FROM expenses WHERE group_id = ? GROUP BY paid_by`,
			groupID,
		); err != nil {
			return fmt.Errorf("failed to sum payments: %w", err)
		}

		if err := tx.sumInto(ctx, ledger.Shares,
			`SELECT es.user_id, SUM(es.share_amount)
			 FROM expense_shares es
			 JOIN expenses e ON e.id = es.expense_id
			 WHERE e.group_id = ?
			 GROUP BY es.user_id`,
			groupID,
		); err != nil {
			return fmt.Errorf("failed to sum shares: %w", err)
		}

		completed, err := tx.querySettlements(ctx,
			`WHERE group_id = ? AND status IN (?, ?) ORDER BY created_at, rowid`,
			groupID, string(models.StatusSettledOnchain), string(models.StatusSettledExternal),
		)
		if err != nil {
			return fmt.Errorf("failed to load completed settlements: %w", err)
		}
		for _, st := range completed {
			ledger.Completed = append(ledger.Completed, *st)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

func (s *SQLiteStore) sumInto(ctx context.Context, dst map[string]int64, query string, args ...any) error {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var total int64
		if err := rows.Scan(&userID, &total); err != nil {
			return err
		}
		dst[userID] += total
	}
	return rows.Err()
}
