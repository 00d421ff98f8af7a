package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitogram/internal/models"
)

// CreateExpense inserts the expense and its shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	return s.transact(ctx, func(tx *SQLiteStore) error {
		_, err := tx.q.ExecContext(ctx,
			`INSERT INTO expenses (id, group_id, paid_by, amount, description, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.GroupID, expense.PaidBy, expense.Amount, expense.Description, expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for i := range expense.Shares {
			share := &expense.Shares[i]
			share.ExpenseID = expense.ID
			_, err := tx.q.ExecContext(ctx,
				`INSERT INTO expense_shares (expense_id, user_id, share_amount) VALUES (?, ?, ?)`,
				share.ExpenseID, share.UserID, share.ShareAmount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert share for %s: %w", share.UserID, err)
			}
		}
		return nil
	})
}

// ListExpenses returns a page of the group's expenses, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*models.Expense, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT id, group_id, paid_by, amount, description, created_at
		FROM expenses
		WHERE group_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := []*models.Expense{}
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PaidBy, &e.Amount, &e.Description, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	rows.Close()

	if len(expenses) == 0 {
		return expenses, nil
	}

	args := make([]any, len(expenses))
	for i, e := range expenses {
		args[i] = e.ID
	}

	shareRows, err := s.q.QueryContext(ctx,
		`SELECT expense_id, user_id, share_amount FROM expense_shares
		 WHERE expense_id IN (`+placeholders(len(args))+`)
		 ORDER BY rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var share models.ExpenseShare
		if err := shareRows.Scan(&share.ExpenseID, &share.UserID, &share.ShareAmount); err != nil {
			return nil, fmt.Errorf("failed to scan expense share: %w", err)
		}
		if e, ok := byID[share.ExpenseID]; ok {
			e.Shares = append(e.Shares, share)
		}
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense shares: %w", err)
	}

	return expenses, nil
}
