package ledger

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/calculator"
	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/storage/sqlite"
)

type stubLoader struct {
	ledger *models.Ledger
}

func (s stubLoader) LoadLedger(ctx context.Context, groupID string) (*models.Ledger, error) {
	return s.ledger, nil
}

func newStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestComputeNetBalances(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for _, id := range []string{"alice", "bob", "carol", "dave"} {
		require.NoError(t, store.UpsertUser(ctx, &models.User{ID: id, DisplayName: id}))
	}
	group := &models.Group{Name: "Flat", CreatedBy: "alice"}
	require.NoError(t, store.CreateGroup(ctx, group))
	for _, id := range []string{"bob", "carol", "dave"} {
		_, err := store.AddMember(ctx, group.ID, id, models.RoleMember)
		require.NoError(t, err)
	}

	agg := NewAggregator(store)

	t.Run("members without activity are zero", func(t *testing.T) {
		balances, err := agg.ComputeNetBalances(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, balances, 4)
		for _, b := range balances {
			assert.Zero(t, b.Net, b.MemberID)
		}
		assert.Equal(t, "alice", balances[0].MemberID)
	})

	require.NoError(t, store.CreateExpense(ctx, &models.Expense{
		GroupID: group.ID, PaidBy: "alice", Amount: 30_000_000, Description: "Groceries",
		Shares: []models.ExpenseShare{
			{UserID: "alice", ShareAmount: 10_000_000},
			{UserID: "bob", ShareAmount: 10_000_000},
			{UserID: "carol", ShareAmount: 10_000_000},
		},
	}))

	t.Run("paid minus share", func(t *testing.T) {
		balances, err := agg.ComputeNetBalances(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20_000_000), calculator.BalanceOf(balances, "alice"))
		assert.Equal(t, int64(-10_000_000), calculator.BalanceOf(balances, "bob"))
		assert.Equal(t, int64(-10_000_000), calculator.BalanceOf(balances, "carol"))
		assert.Equal(t, int64(0), calculator.BalanceOf(balances, "dave"))
	})

	t.Run("completed settlements move both sides", func(t *testing.T) {
		s := &models.Settlement{GroupID: group.ID, FromUserID: "bob", ToUserID: "alice", Amount: 10_000_000}
		require.NoError(t, store.CreateSettlement(ctx, s))

		// Still open: no effect.
		balances, err := agg.ComputeNetBalances(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(-10_000_000), calculator.BalanceOf(balances, "bob"))

		ok, err := store.TransitionSettlement(ctx, s.ID,
			[]models.SettlementStatus{models.StatusOpen}, models.StatusSettledExternal, "")
		require.NoError(t, err)
		require.True(t, ok)

		balances, err = agg.ComputeNetBalances(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), calculator.BalanceOf(balances, "bob"))
		assert.Equal(t, int64(10_000_000), calculator.BalanceOf(balances, "alice"))
		require.NoError(t, calculator.CheckZeroSum(balances))
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := agg.ComputeNetBalances(ctx, "missing")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestComputeNetBalances_ZeroSumAfterRandomActivity(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	rng := rand.New(rand.NewSource(7))

	ids := []string{"m0", "m1", "m2", "m3", "m4"}
	for _, id := range ids {
		require.NoError(t, store.UpsertUser(ctx, &models.User{ID: id, DisplayName: id}))
	}
	group := &models.Group{Name: "Random", CreatedBy: ids[0]}
	require.NoError(t, store.CreateGroup(ctx, group))
	for _, id := range ids[1:] {
		_, err := store.AddMember(ctx, group.ID, id, models.RoleMember)
		require.NoError(t, err)
	}

	agg := NewAggregator(store)
	for i := 0; i < 40; i++ {
		payer := ids[rng.Intn(len(ids))]
		n := 2 + rng.Intn(len(ids)-1)
		participants := append([]string(nil), ids[:n]...)
		amount := int64(1 + rng.Intn(50_000_000))

		shares, err := calculator.SplitEqually(amount, participants)
		require.NoError(t, err)
		expense := &models.Expense{GroupID: group.ID, PaidBy: payer, Amount: amount, Description: "x"}
		for _, sh := range shares {
			expense.Shares = append(expense.Shares, models.ExpenseShare{UserID: sh.UserID, ShareAmount: sh.Amount})
		}
		require.NoError(t, store.CreateExpense(ctx, expense))

		if i%5 == 4 {
			balances, err := agg.ComputeNetBalances(ctx, group.ID)
			require.NoError(t, err)
			debts := calculator.Simplify(balances)
			if len(debts) > 0 {
				d := debts[0]
				s := &models.Settlement{GroupID: group.ID, FromUserID: d.From, ToUserID: d.To, Amount: d.Amount}
				require.NoError(t, store.CreateSettlement(ctx, s))
				_, err = store.TransitionSettlement(ctx, s.ID,
					[]models.SettlementStatus{models.StatusOpen}, models.StatusSettledExternal, "")
				require.NoError(t, err)
			}
		}

		balances, err := agg.ComputeNetBalances(ctx, group.ID)
		require.NoError(t, err)
		require.NoError(t, calculator.CheckZeroSum(balances))
	}
}

func TestComputeWith_RejectsInconsistentLedger(t *testing.T) {
	loader := stubLoader{ledger: &models.Ledger{
		GroupID:  "g",
		Members:  []models.Member{{UserID: "a"}, {UserID: "b"}},
		Payments: map[string]int64{"a": 100},
		Shares:   map[string]int64{"a": 50},
	}}

	_, err := ComputeWith(context.Background(), loader, "g")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
