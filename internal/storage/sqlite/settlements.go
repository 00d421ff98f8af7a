package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitogram/internal/models"
)

const settlementColumns = `id, group_id, from_user, to_user, amount, status, tx_hash, created_at, updated_at`

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.Status == "" {
		settlement.Status = models.StatusOpen
	}
	now := time.Now().Unix()
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = now
	}
	settlement.UpdatedAt = now

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount, string(settlement.Status), nullable(settlement.TxRef),
		settlement.CreatedAt, settlement.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = ?`,
		settlementID,
	)

	settlement, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("settlement", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// FindOpenSettlement returns the open settlement for a debtor/creditor pair.
func (s *SQLiteStore) FindOpenSettlement(ctx context.Context, groupID, fromUserID, toUserID string) (*models.Settlement, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE group_id = ? AND from_user = ? AND to_user = ? AND status = ?
		 ORDER BY created_at, rowid
		 LIMIT 1`,
		groupID, fromUserID, toUserID, string(models.StatusOpen),
	)

	settlement, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open settlement: %w", err)
	}
	return settlement, nil
}

// UpdateSettlementAmount changes the amount of a settlement that is still open.
func (s *SQLiteStore) UpdateSettlementAmount(ctx context.Context, settlementID string, amount int64) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		`UPDATE settlements SET amount = ?, updated_at = ? WHERE id = ? AND status = ?`,
		amount, time.Now().Unix(), settlementID, string(models.StatusOpen),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update settlement amount: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update settlement amount: %w", err)
	}
	return n > 0, nil
}

// TransitionSettlement performs a compare-and-swap on the settlement status.
func (s *SQLiteStore) TransitionSettlement(
	ctx context.Context,
	settlementID string,
	from []models.SettlementStatus,
	to models.SettlementStatus,
	txRef string,
) (bool, error) {
	if len(from) == 0 {
		return false, fmt.Errorf("transition of %s: no source statuses", settlementID)
	}

	args := []any{string(to), nullable(txRef), time.Now().Unix(), settlementID}
	for _, st := range from {
		args = append(args, string(st))
	}

	res, err := s.q.ExecContext(ctx,
		`UPDATE settlements
		 SET status = ?, tx_hash = COALESCE(?, tx_hash), updated_at = ?
		 WHERE id = ? AND status IN (`+placeholders(len(from))+`)`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition settlement: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to transition settlement: %w", err)
	}
	return n > 0, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	settlements, err := s.querySettlements(ctx,
		`WHERE group_id = ? ORDER BY created_at DESC, rowid DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	return settlements, nil
}

// ListPendingSettlements returns payment_pending settlements with a stored
// transaction reference.
func (s *SQLiteStore) ListPendingSettlements(ctx context.Context, limit int) ([]*models.Settlement, error) {
	if limit <= 0 {
		limit = 100
	}

	settlements, err := s.querySettlements(ctx,
		`WHERE status = ? AND tx_hash IS NOT NULL AND tx_hash != ''
		 ORDER BY updated_at, rowid
		 LIMIT ?`,
		string(models.StatusPaymentPending), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending settlements: %w", err)
	}
	return settlements, nil
}

// querySettlements runs a SELECT over settlements with the given tail clause.
func (s *SQLiteStore) querySettlements(ctx context.Context, clause string, args ...any) ([]*models.Settlement, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements `+clause,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settlements := []*models.Settlement{}
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlements: %w", err)
	}

	return settlements, nil
}

func scanSettlement(row scanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	var txRef sql.NullString

	if err := row.Scan(
		&settlement.ID,
		&settlement.GroupID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&settlement.Amount,
		&status,
		&txRef,
		&settlement.CreatedAt,
		&settlement.UpdatedAt,
	); err != nil {
		return nil, err
	}

	settlement.Status = models.SettlementStatus(status)
	settlement.TxRef = txRef.String
	return settlement, nil
}
