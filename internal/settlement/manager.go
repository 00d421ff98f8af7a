// Package settlement drives settlements from a group's simplified debts
// through payment verification to a terminal state.
//
//	(none) --derive--> open --> payment_pending --> settled_onchain
//	                    |              |
//	                    |              +----------> settled_external
//	                    +-------------------------> settled_external
//
// Every status change is a compare-and-swap on the stored status, so a
// terminal settlement can never be moved again.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/calculator"
	"github.com/mmynk/splitogram/internal/ledger"
	"github.com/mmynk/splitogram/internal/metrics"
	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/oracle"
	"github.com/mmynk/splitogram/internal/storage"
)

// Events receives settlement notifications. Implementations must not block.
type Events interface {
	SettlementCompleted(settlement *models.Settlement)
}

type noEvents struct{}

func (noEvents) SettlementCompleted(*models.Settlement) {}

// Config holds Manager settings.
type Config struct {
	// OracleTimeout bounds every oracle call. Defaults to 10s.
	OracleTimeout time.Duration
	// USDTMasterAddress is the jetton master used for on-chain transfers.
	USDTMasterAddress string
}

// Manager implements the settlement lifecycle.
type Manager struct {
	store  storage.Store
	oracle oracle.Verifier
	events Events
	cfg    Config
}

// NewManager creates a Manager. A nil verifier disables on-chain
// verification and nil events disables notifications.
func NewManager(store storage.Store, verifier oracle.Verifier, events Events, cfg Config) *Manager {
	if verifier == nil {
		verifier = oracle.Disabled{}
	}
	if events == nil {
		events = noEvents{}
	}
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = 10 * time.Second
	}
	return &Manager{store: store, oracle: verifier, events: events, cfg: cfg}
}

// Proof is what a debtor presents to begin verification: a transaction
// reference, a signed transaction blob, or both.
type Proof struct {
	TxRef string
	Blob  string
}

// VerificationResult describes where a settlement stands after a
// verification attempt. A payment_pending result is not a failure.
type VerificationResult struct {
	Settlement *models.Settlement
	Detail     string
	// Reason is KindOracleUnavailable when the oracle could not be reached.
	Reason apperror.Kind
}

// Status is the settlement's status after the attempt.
func (r *VerificationResult) Status() models.SettlementStatus {
	return r.Settlement.Status
}

var transferable = []models.SettlementStatus{models.StatusOpen, models.StatusPaymentPending}

// Derive creates or updates the open settlements that pay off the actor's
// current debts in the group. With unchanged balances it is a no-op.
func (m *Manager) Derive(ctx context.Context, actorID, groupID string) ([]*models.Settlement, error) {
	var result []*models.Settlement
	var created int

	err := m.store.WithinTx(ctx, func(tx storage.Store) error {
		if err := requireMember(ctx, tx, groupID, actorID); err != nil {
			return err
		}

		balances, err := ledger.ComputeWith(ctx, tx, groupID)
		if err != nil {
			return err
		}

		debts := calculator.DebtsFrom(calculator.Simplify(balances), actorID)
		if len(debts) == 0 {
			return apperror.NoOutstandingDebt("you have no outstanding debts in this group")
		}

		for _, debt := range debts {
			existing, err := tx.FindOpenSettlement(ctx, groupID, debt.From, debt.To)
			if err != nil {
				return err
			}

			if existing != nil {
				if existing.Amount != debt.Amount {
					ok, err := tx.UpdateSettlementAmount(ctx, existing.ID, debt.Amount)
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("settlement %s left open state during derive", existing.ID)
					}
					existing.Amount = debt.Amount
				}
				result = append(result, existing)
				continue
			}

			s := &models.Settlement{
				GroupID:    groupID,
				FromUserID: debt.From,
				ToUserID:   debt.To,
				Amount:     debt.Amount,
				Status:     models.StatusOpen,
			}
			if err := tx.CreateSettlement(ctx, s); err != nil {
				return err
			}
			created++
			result = append(result, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < created; i++ {
		metrics.SettlementTransition(string(models.StatusOpen))
	}
	slog.Debug("Derived settlements", "group_id", groupID, "debtor", actorID, "count", len(result), "created", created)
	return result, nil
}

// BeginVerification moves the settlement to payment_pending before asking
// the oracle anything, then tries to confirm the presented proof. Oracle
// trouble leaves the settlement pending and is reported in the result.
func (m *Manager) BeginVerification(ctx context.Context, actorID, settlementID string, proof Proof) (*VerificationResult, error) {
	s, err := m.load(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if s.FromUserID != actorID {
		return nil, apperror.NotDebtor("only the debtor can verify payment")
	}
	if s.Status.Terminal() {
		return nil, apperror.InvalidStatus("settlement is already %s", s.Status)
	}
	if proof.TxRef == "" && proof.Blob == "" {
		return nil, apperror.Validation("either a transaction reference or a signed transaction is required")
	}

	previous := s.Status
	s, err = m.transition(ctx, s.ID, transferable, models.StatusPaymentPending, proof.TxRef)
	if err != nil {
		return nil, err
	}
	if previous != models.StatusPaymentPending {
		metrics.SettlementTransition(string(models.StatusPaymentPending))
	}

	if proof.TxRef != "" {
		return m.confirm(ctx, s, proof.TxRef)
	}

	octx, cancel := context.WithTimeout(ctx, m.cfg.OracleTimeout)
	ref, err := m.oracle.Submit(octx, proof.Blob)
	cancel()
	if err != nil {
		slog.Warn("Failed to broadcast transaction", "settlement_id", s.ID, "error", err)
		return pending(s, "Transaction submitted, awaiting verification", apperror.KindOracleUnavailable), nil
	}

	if ref != "" {
		s, err = m.transition(ctx, s.ID, []models.SettlementStatus{models.StatusPaymentPending}, models.StatusPaymentPending, ref)
		if err != nil {
			return nil, err
		}
	}
	return pending(s, "Transaction broadcast, awaiting on-chain confirmation. Refresh to check status.", ""), nil
}

// ConfirmOnChain asks the oracle whether txRef is final and, if so, settles
// the pending settlement on-chain. An empty txRef uses the stored reference.
func (m *Manager) ConfirmOnChain(ctx context.Context, settlementID, txRef string) (*VerificationResult, error) {
	s, err := m.load(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if s.Status != models.StatusPaymentPending {
		return nil, apperror.InvalidStatus("settlement is %s, expected %s", s.Status, models.StatusPaymentPending)
	}
	if txRef == "" {
		txRef = s.TxRef
	}
	if txRef == "" {
		return nil, apperror.Validation("settlement has no transaction reference to confirm")
	}
	return m.confirm(ctx, s, txRef)
}

// Refresh re-checks a settlement on behalf of either party. Only pending
// settlements with a stored reference reach the oracle; anything else is
// returned as it stands.
func (m *Manager) Refresh(ctx context.Context, actorID, settlementID string) (*VerificationResult, error) {
	s, err := m.Get(ctx, actorID, settlementID)
	if err != nil {
		return nil, err
	}

	switch {
	case s.Status != models.StatusPaymentPending:
		return &VerificationResult{Settlement: s}, nil
	case s.TxRef == "":
		return pending(s, "Awaiting a transaction reference from the debtor", ""), nil
	}

	result, err := m.confirm(ctx, s, s.TxRef)
	if apperror.KindOf(err) == apperror.KindInvalidStatus {
		// Settled concurrently; report the current state.
		current, lerr := m.load(ctx, settlementID)
		if lerr != nil {
			return nil, lerr
		}
		return &VerificationResult{Settlement: current}, nil
	}
	return result, err
}

// MarkExternal records that the creditor was paid outside the chain.
func (m *Manager) MarkExternal(ctx context.Context, actorID, settlementID string) (*models.Settlement, error) {
	s, err := m.load(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if s.ToUserID != actorID {
		return nil, apperror.NotCreditor("only the creditor can mark a settlement as externally settled")
	}
	if s.Status.Terminal() {
		return nil, apperror.InvalidStatus("settlement is already %s", s.Status)
	}

	s, err = m.transition(ctx, s.ID, transferable, models.StatusSettledExternal, "")
	if err != nil {
		return nil, err
	}

	metrics.SettlementTransition(string(models.StatusSettledExternal))
	slog.Info("Settlement settled externally", "settlement_id", s.ID, "group_id", s.GroupID, "amount", s.Amount)
	m.events.SettlementCompleted(s)
	return s, nil
}

// Get returns a settlement to one of its two parties.
func (m *Manager) Get(ctx context.Context, actorID, settlementID string) (*models.Settlement, error) {
	s, err := m.load(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if s.FromUserID != actorID && s.ToUserID != actorID {
		return nil, apperror.NotInvolved("you are not involved in this settlement")
	}
	return s, nil
}

// ListByGroup returns every settlement of a group to one of its members.
func (m *Manager) ListByGroup(ctx context.Context, actorID, groupID string) ([]*models.Settlement, error) {
	if err := requireMember(ctx, m.store, groupID, actorID); err != nil {
		return nil, err
	}
	return m.store.ListSettlementsByGroup(ctx, groupID)
}

// confirm checks txRef with the oracle and settles s on success.
func (m *Manager) confirm(ctx context.Context, s *models.Settlement, txRef string) (*VerificationResult, error) {
	octx, cancel := context.WithTimeout(ctx, m.cfg.OracleTimeout)
	confirmed, err := m.oracle.CheckConfirmed(octx, txRef)
	cancel()
	if err != nil {
		slog.Warn("Verification oracle call failed", "settlement_id", s.ID, "error", err)
		return pending(s, "Verification is temporarily unavailable. Try again later.", apperror.KindOracleUnavailable), nil
	}
	if !confirmed {
		return pending(s, "Transaction not yet confirmed. Try again or refresh status.", ""), nil
	}

	settled, err := m.transition(ctx, s.ID,
		[]models.SettlementStatus{models.StatusPaymentPending}, models.StatusSettledOnchain, txRef)
	if err != nil {
		// Already settled with this reference by a concurrent caller.
		var appErr *apperror.Error
		if errors.As(err, &appErr) && appErr.Kind == apperror.KindInvalidStatus {
			if current, lerr := m.load(ctx, s.ID); lerr == nil &&
				current.Status == models.StatusSettledOnchain && current.TxRef == txRef {
				return &VerificationResult{Settlement: current}, nil
			}
		}
		return nil, err
	}

	metrics.SettlementTransition(string(models.StatusSettledOnchain))
	slog.Info("Settlement settled on-chain", "settlement_id", settled.ID, "group_id", settled.GroupID, "tx_ref", txRef)
	m.events.SettlementCompleted(settled)
	return &VerificationResult{Settlement: settled}, nil
}

// transition performs the compare-and-swap and returns the updated row. A
// lost swap is reported as InvalidStatus with the status that won.
func (m *Manager) transition(
	ctx context.Context,
	settlementID string,
	from []models.SettlementStatus,
	to models.SettlementStatus,
	txRef string,
) (*models.Settlement, error) {
	ok, err := m.store.TransitionSettlement(ctx, settlementID, from, to, txRef)
	if err != nil {
		return nil, err
	}

	current, err := m.load(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.InvalidStatus("settlement is already %s", current.Status)
	}
	return current, nil
}

func (m *Manager) load(ctx context.Context, settlementID string) (*models.Settlement, error) {
	s, err := m.store.GetSettlement(ctx, settlementID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("settlement not found")
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// requireMember fails with NotFound for unknown groups and NotMember when
// the user does not belong to the group.
func requireMember(ctx context.Context, store storage.GroupStore, groupID, userID string) error {
	if _, err := store.GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperror.NotFound("group not found")
		}
		return err
	}

	ok, err := store.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotMember("you are not a member of this group")
	}
	return nil
}

func pending(s *models.Settlement, detail string, reason apperror.Kind) *VerificationResult {
	return &VerificationResult{Settlement: s, Detail: detail, Reason: reason}
}
