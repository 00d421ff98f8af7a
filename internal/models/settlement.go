package models

// SettlementStatus is the lifecycle state of a settlement.
//
//	open -> payment_pending -> settled_onchain
//	open -> payment_pending -> settled_external
//	open -> settled_external
type SettlementStatus string

const (
	StatusOpen            SettlementStatus = "open"
	StatusPaymentPending  SettlementStatus = "payment_pending"
	StatusSettledOnchain  SettlementStatus = "settled_onchain"
	StatusSettledExternal SettlementStatus = "settled_external"
)

// Terminal reports whether no further transition is allowed.
func (s SettlementStatus) Terminal() bool {
	return s == StatusSettledOnchain || s == StatusSettledExternal
}

// Completed reports whether the settlement moves balances.
func (s SettlementStatus) Completed() bool {
	return s.Terminal()
}

// Valid reports whether s is a known status.
func (s SettlementStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusPaymentPending, StatusSettledOnchain, StatusSettledExternal:
		return true
	}
	return false
}

// Settlement tracks a transfer from a debtor to a creditor through payment
// confirmation.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the debtor who pays.
	FromUserID string

	// ToUserID is the creditor who receives.
	ToUserID string

	// Amount is the transfer amount in micro-USDT. It may change only while
	// the settlement is open.
	Amount int64

	// Status is the lifecycle state.
	Status SettlementStatus

	// TxRef is the on-chain transaction reference, once known.
	TxRef string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}
