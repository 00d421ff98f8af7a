package settlement

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/calculator"
	"github.com/mmynk/splitogram/internal/ledger"
	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/oracle"
	"github.com/mmynk/splitogram/internal/storage/sqlite"
)

type fakeVerifier struct {
	mu        sync.Mutex
	confirmed map[string]bool
	err       error
	submitRef string
	checks    []string
	submits   []string
	delay     time.Duration
}

func (f *fakeVerifier) Submit(ctx context.Context, blob string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, blob)
	if f.err != nil {
		return "", f.err
	}
	return f.submitRef, nil
}

func (f *fakeVerifier) CheckConfirmed(ctx context.Context, ref string) (bool, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks = append(f.checks, ref)
	if f.err != nil {
		return false, f.err
	}
	return f.confirmed[ref], nil
}

type recordedEvents struct {
	mu        sync.Mutex
	completed []models.Settlement
}

func (r *recordedEvents) SettlementCompleted(s *models.Settlement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, *s)
}

type fixture struct {
	store    *sqlite.SQLiteStore
	verifier *fakeVerifier
	events   *recordedEvents
	manager  *Manager
	groupID  string
}

// newFixture builds a group where alice paid 30 USDT split three ways
// (alice +20, bob -10, carol -10) and dave has no activity.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "settlement.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, id := range []string{"alice", "bob", "carol", "dave", "eve"} {
		require.NoError(t, store.UpsertUser(ctx, &models.User{ID: id, DisplayName: id}))
	}
	group := &models.Group{Name: "Trip", CreatedBy: "alice"}
	require.NoError(t, store.CreateGroup(ctx, group))
	for _, id := range []string{"bob", "carol", "dave"} {
		_, err := store.AddMember(ctx, group.ID, id, models.RoleMember)
		require.NoError(t, err)
	}

	f := &fixture{
		store:    store,
		verifier: &fakeVerifier{confirmed: map[string]bool{}},
		events:   &recordedEvents{},
		groupID:  group.ID,
	}
	f.manager = NewManager(store, f.verifier, f.events, Config{
		OracleTimeout:     time.Second,
		USDTMasterAddress: "EQmaster",
	})

	f.addExpense(t, "alice", 30_000_000, "alice", "bob", "carol")
	return f
}

func (f *fixture) addExpense(t *testing.T, payer string, amount int64, participants ...string) {
	t.Helper()
	shares, err := calculator.SplitEqually(amount, participants)
	require.NoError(t, err)

	e := &models.Expense{GroupID: f.groupID, PaidBy: payer, Amount: amount, Description: "expense"}
	for _, s := range shares {
		e.Shares = append(e.Shares, models.ExpenseShare{UserID: s.UserID, ShareAmount: s.Amount})
	}
	require.NoError(t, f.store.CreateExpense(context.Background(), e))
}

func (f *fixture) derive(t *testing.T, debtor string) *models.Settlement {
	t.Helper()
	settlements, err := f.manager.Derive(context.Background(), debtor, f.groupID)
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	return settlements[0]
}

func (f *fixture) balance(t *testing.T, member string) int64 {
	t.Helper()
	balances, err := ledger.NewAggregator(f.store).ComputeNetBalances(context.Background(), f.groupID)
	require.NoError(t, err)
	require.NoError(t, calculator.CheckZeroSum(balances))
	return calculator.BalanceOf(balances, member)
}

func TestDerive(t *testing.T) {
	ctx := context.Background()

	t.Run("creates open settlement for the debtor", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		assert.Equal(t, "bob", s.FromUserID)
		assert.Equal(t, "alice", s.ToUserID)
		assert.Equal(t, int64(10_000_000), s.Amount)
		assert.Equal(t, models.StatusOpen, s.Status)
	})

	t.Run("idempotent with unchanged balances", func(t *testing.T) {
		f := newFixture(t)
		first := f.derive(t, "bob")
		second := f.derive(t, "bob")

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Amount, second.Amount)
		assert.Equal(t, first.UpdatedAt, second.UpdatedAt)

		all, err := f.store.ListSettlementsByGroup(ctx, f.groupID)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("updates amount in place when balances change", func(t *testing.T) {
		f := newFixture(t)
		first := f.derive(t, "bob")

		f.addExpense(t, "alice", 4_000_000, "alice", "bob")
		second := f.derive(t, "bob")

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int64(12_000_000), second.Amount)
		assert.Equal(t, models.StatusOpen, second.Status)

		stored, err := f.store.GetSettlement(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12_000_000), stored.Amount)
	})

	t.Run("open settlements do not change balances", func(t *testing.T) {
		f := newFixture(t)
		f.derive(t, "bob")
		assert.Equal(t, int64(-10_000_000), f.balance(t, "bob"))
	})

	t.Run("creditor has no outstanding debt", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Derive(ctx, "alice", f.groupID)
		assert.ErrorIs(t, err, apperror.ErrNoOutstandingDebt)

		_, err = f.manager.Derive(ctx, "dave", f.groupID)
		assert.ErrorIs(t, err, apperror.ErrNoOutstandingDebt)
	})

	t.Run("non-member and unknown group", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.Derive(ctx, "eve", f.groupID)
		assert.ErrorIs(t, err, apperror.ErrNotMember)

		_, err = f.manager.Derive(ctx, "bob", "missing")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("after settling, debtor owes nothing", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		_, err := f.manager.MarkExternal(ctx, "alice", s.ID)
		require.NoError(t, err)

		_, err = f.manager.Derive(ctx, "bob", f.groupID)
		assert.ErrorIs(t, err, apperror.ErrNoOutstandingDebt)
		assert.Zero(t, f.balance(t, "bob"))
		assert.Equal(t, int64(10_000_000), f.balance(t, "alice"))
	})
}

func TestBeginVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed reference settles on-chain", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		f.verifier.confirmed["tx1"] = true

		result, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusSettledOnchain, result.Status())
		assert.Equal(t, "tx1", result.Settlement.TxRef)
		assert.Empty(t, result.Reason)

		require.Len(t, f.events.completed, 1)
		assert.Equal(t, s.ID, f.events.completed[0].ID)
		assert.Zero(t, f.balance(t, "bob"))
	})

	t.Run("unconfirmed reference stays pending", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")

		result, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaymentPending, result.Status())
		assert.NotEmpty(t, result.Detail)
		assert.Equal(t, "tx1", result.Settlement.TxRef, "reference kept for polling")
		assert.Empty(t, f.events.completed)
	})

	t.Run("oracle failure stays pending", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		f.verifier.err = oracle.ErrUnavailable

		result, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaymentPending, result.Status())
		assert.Equal(t, apperror.KindOracleUnavailable, result.Reason)
	})

	t.Run("oracle timeout stays pending", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		f.verifier.delay = time.Minute
		f.manager.cfg.OracleTimeout = 20 * time.Millisecond

		start := time.Now()
		result, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, models.StatusPaymentPending, result.Status())
		assert.Equal(t, apperror.KindOracleUnavailable, result.Reason)
	})

	t.Run("blob is broadcast and reference stored", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		f.verifier.submitRef = "hash-from-oracle"

		result, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{Blob: "te6cc"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaymentPending, result.Status())
		assert.Equal(t, "hash-from-oracle", result.Settlement.TxRef)
		assert.Equal(t, []string{"te6cc"}, f.verifier.submits)
	})

	t.Run("pending can be verified again", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")

		_, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)

		f.verifier.confirmed["tx1"] = true
		result, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusSettledOnchain, result.Status())
	})

	t.Run("only the debtor", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")

		_, err := f.manager.BeginVerification(ctx, "alice", s.ID, Proof{TxRef: "tx1"})
		assert.ErrorIs(t, err, apperror.ErrNotDebtor)

		stored, err := f.store.GetSettlement(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusOpen, stored.Status, "rejected call has no effect")
	})

	t.Run("proof required", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")

		_, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("unknown settlement", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.manager.BeginVerification(ctx, "bob", "missing", Proof{TxRef: "x"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestTerminalStates(t *testing.T) {
	ctx := context.Background()

	settleOnchain := func(t *testing.T, f *fixture) *models.Settlement {
		s := f.derive(t, "bob")
		f.verifier.confirmed["tx1"] = true
		result, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)
		require.Equal(t, models.StatusSettledOnchain, result.Status())
		return result.Settlement
	}

	t.Run("settled on-chain rejects every transition", func(t *testing.T) {
		f := newFixture(t)
		s := settleOnchain(t, f)

		_, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx2"})
		assert.ErrorIs(t, err, apperror.ErrInvalidStatus)

		_, err = f.manager.MarkExternal(ctx, "alice", s.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidStatus)

		_, err = f.manager.ConfirmOnChain(ctx, s.ID, "tx1")
		assert.ErrorIs(t, err, apperror.ErrInvalidStatus)

		_, err = f.manager.TxParams(ctx, "bob", s.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidStatus)

		stored, err := f.store.GetSettlement(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSettledOnchain, stored.Status)
		assert.Equal(t, "tx1", stored.TxRef)
		assert.Equal(t, s.Amount, stored.Amount)
	})

	t.Run("settled externally rejects every transition", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		_, err := f.manager.MarkExternal(ctx, "alice", s.ID)
		require.NoError(t, err)

		_, err = f.manager.MarkExternal(ctx, "alice", s.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidStatus)

		_, err = f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
	})

	t.Run("derive after settlement starts a new record", func(t *testing.T) {
		f := newFixture(t)
		settleOnchain(t, f)

		f.addExpense(t, "alice", 2_000_000, "alice", "bob")
		s := f.derive(t, "bob")
		assert.Equal(t, int64(1_000_000), s.Amount)
		assert.Equal(t, models.StatusOpen, s.Status)
	})
}

func TestMarkExternal(t *testing.T) {
	ctx := context.Background()

	t.Run("from open", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")

		got, err := f.manager.MarkExternal(ctx, "alice", s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSettledExternal, got.Status)
		require.Len(t, f.events.completed, 1)
	})

	t.Run("from payment pending", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		_, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)

		got, err := f.manager.MarkExternal(ctx, "alice", s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSettledExternal, got.Status)
	})

	t.Run("only the creditor", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")

		_, err := f.manager.MarkExternal(ctx, "bob", s.ID)
		assert.ErrorIs(t, err, apperror.ErrNotCreditor)

		_, err = f.manager.MarkExternal(ctx, "carol", s.ID)
		assert.ErrorIs(t, err, apperror.ErrNotCreditor)
	})
}

func TestConfirmAndRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm requires pending", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		_, err := f.manager.ConfirmOnChain(ctx, s.ID, "tx1")
		assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
	})

	t.Run("confirm uses stored reference", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		_, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)

		f.verifier.confirmed["tx1"] = true
		result, err := f.manager.ConfirmOnChain(ctx, s.ID, "")
		require.NoError(t, err)
		assert.Equal(t, models.StatusSettledOnchain, result.Status())
	})

	t.Run("refresh by either party", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		_, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		require.NoError(t, err)

		result, err := f.manager.Refresh(ctx, "alice", s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaymentPending, result.Status())

		f.verifier.confirmed["tx1"] = true
		result, err = f.manager.Refresh(ctx, "alice", s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSettledOnchain, result.Status())

		// Terminal: returned as is, oracle not called again.
		checks := len(f.verifier.checks)
		result, err = f.manager.Refresh(ctx, "bob", s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusSettledOnchain, result.Status())
		assert.Len(t, f.verifier.checks, checks)
	})

	t.Run("refresh without reference", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		f.verifier.err = oracle.ErrUnavailable
		_, err := f.manager.BeginVerification(ctx, "bob", s.ID, Proof{Blob: "te6cc"})
		require.NoError(t, err)

		result, err := f.manager.Refresh(ctx, "bob", s.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaymentPending, result.Status())
		assert.NotEmpty(t, result.Detail)
	})

	t.Run("refresh by outsider", func(t *testing.T) {
		f := newFixture(t)
		s := f.derive(t, "bob")
		_, err := f.manager.Refresh(ctx, "carol", s.ID)
		assert.ErrorIs(t, err, apperror.ErrNotInvolved)
	})
}

func TestConcurrentBeginVerification(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.derive(t, "bob")
	f.verifier.confirmed["tx1"] = true

	var wg sync.WaitGroup
	results := make([]*VerificationResult, 4)
	errs := make([]error, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.manager.BeginVerification(ctx, "bob", s.ID, Proof{TxRef: "tx1"})
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			// Arrived after the settlement was final.
			assert.ErrorIs(t, errs[i], apperror.ErrInvalidStatus)
			continue
		}
		assert.Equal(t, models.StatusSettledOnchain, results[i].Status())
	}

	stored, err := f.store.GetSettlement(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSettledOnchain, stored.Status)
	assert.Len(t, f.events.completed, 1, "completion is emitted once")
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.derive(t, "bob")
	f.derive(t, "carol")

	got, err := f.manager.Get(ctx, "alice", s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = f.manager.Get(ctx, "carol", s.ID)
	assert.ErrorIs(t, err, apperror.ErrNotInvolved)

	all, err := f.manager.ListByGroup(ctx, "dave", f.groupID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.manager.ListByGroup(ctx, "eve", f.groupID)
	assert.ErrorIs(t, err, apperror.ErrNotMember)
}

func TestTxParams(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.derive(t, "bob")

	_, err := f.manager.TxParams(ctx, "bob", s.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation, "creditor has no wallet")

	require.NoError(t, f.store.SetWallet(ctx, "alice", "EQalice"))

	params, err := f.manager.TxParams(ctx, "bob", s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), params.Amount)
	assert.Equal(t, "EQalice", params.RecipientAddress)
	assert.Equal(t, "EQmaster", params.USDTMasterAddress)
	assert.Equal(t, "splitogram:"+s.ID, params.Comment)

	_, err = f.manager.TxParams(ctx, "alice", s.ID)
	assert.ErrorIs(t, err, apperror.ErrNotDebtor)
}
