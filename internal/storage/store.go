// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitogram/internal/models"
)

// ErrNotFound is wrapped by stores when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// UserStore persists user accounts.
type UserStore interface {
	// UpsertUser inserts the user or refreshes its profile fields. The wallet
	// address is never touched by an upsert.
	UpsertUser(ctx context.Context, user *models.User) error

	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to user. Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// SetWallet stores the user's wallet address; an empty address clears it.
	SetWallet(ctx context.Context, userID, address string) error
}

// GroupStore persists groups and their members.
type GroupStore interface {
	// CreateGroup persists a new group and adds its creator as admin.
	// The group.ID, InviteCode and CreatedAt fields are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds a user to a group. It reports false when the user was
	// already a member.
	AddMember(ctx context.Context, groupID, userID, role string) (bool, error)

	// ListMembers returns members in join order.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// ExpenseStore persists expenses together with their shares.
type ExpenseStore interface {
	// CreateExpense inserts the expense and all of its shares atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns a page of expenses, newest first, with shares.
	ListExpenses(ctx context.Context, groupID string, limit, offset int) ([]*models.Expense, error)
}

// LedgerStore reads balance-moving events.
type LedgerStore interface {
	// LoadLedger reads a group's members, expense totals and completed
	// settlements from one consistent snapshot.
	LoadLedger(ctx context.Context, groupID string) (*models.Ledger, error)
}

// SettlementStore persists settlements. Status changes go through
// TransitionSettlement, a compare-and-swap on the current status.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// FindOpenSettlement returns the open settlement for (group, from, to),
	// or nil when there is none.
	FindOpenSettlement(ctx context.Context, groupID, fromUserID, toUserID string) (*models.Settlement, error)

	// UpdateSettlementAmount changes the amount of an open settlement. It
	// reports false when the settlement is no longer open.
	UpdateSettlementAmount(ctx context.Context, settlementID string, amount int64) (bool, error)

	// TransitionSettlement moves a settlement to status `to` only if its
	// current status is one of `from`. A non-empty txRef is stored with the
	// change. It reports whether the row was updated.
	TransitionSettlement(ctx context.Context, settlementID string, from []models.SettlementStatus, to models.SettlementStatus, txRef string) (bool, error)

	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ListPendingSettlements returns payment_pending settlements that carry a
	// transaction reference, oldest update first.
	ListPendingSettlements(ctx context.Context, limit int) ([]*models.Settlement, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	LedgerStore
	SettlementStore

	// WithinTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Nested calls reuse the outer transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases any resources held by the store.
	Close() error
}
