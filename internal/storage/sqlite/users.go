package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/splitogram/internal/models"
)

const userColumns = `id, display_name, username, telegram_id, wallet_address, created_at, updated_at`

// UpsertUser inserts a user or refreshes its display name, username and
// Telegram ID. The stored wallet address is preserved.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *models.User) error {
	now := time.Now().Unix()
	if user.CreatedAt == 0 {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	var telegramID any
	if user.TelegramID != 0 {
		telegramID = user.TelegramID
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO users (id, display_name, username, telegram_id, wallet_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			username = excluded.username,
			telegram_id = COALESCE(excluded.telegram_id, users.telegram_id),
			updated_at = excluded.updated_at
	`,
		user.ID,
		user.DisplayName,
		nullable(user.Username),
		telegramID,
		nullable(user.WalletAddress),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Users that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// SetWallet stores or clears the user's wallet address.
func (s *SQLiteStore) SetWallet(ctx context.Context, userID, address string) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE users SET wallet_address = ?, updated_at = ? WHERE id = ?`,
		nullable(address), time.Now().Unix(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set wallet: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to set wallet: %w", err)
	}
	if n == 0 {
		return notFound("user", userID)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	var username, wallet sql.NullString
	var telegramID sql.NullInt64

	if err := row.Scan(
		&user.ID,
		&user.DisplayName,
		&username,
		&telegramID,
		&wallet,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.Username = username.String
	user.TelegramID = telegramID.Int64
	user.WalletAddress = wallet.String
	return user, nil
}
