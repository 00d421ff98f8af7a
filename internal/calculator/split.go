package calculator

import (
	"fmt"
)

// Share is one participant's part of an expense.
type Share struct {
	UserID string
	Amount int64
}

// MaxAmount is the largest expense amount accepted: one billion USDT.
// Thousands of maximal expenses still sum within int64.
const MaxAmount int64 = 1_000_000_000_000_000

// SplitEqually divides amount among participants in integer micro-units.
// The first participant absorbs the remainder so shares always sum to amount.
func SplitEqually(amount int64, participants []string) ([]Share, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if dup := firstDuplicate(participants); dup != "" {
		return nil, fmt.Errorf("participant %s listed twice", dup)
	}

	count := int64(len(participants))
	base := amount / count
	remainder := amount - base*count

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{UserID: p, Amount: base}
	}
	shares[0].Amount += remainder

	return shares, nil
}

// ValidateShares checks an explicit split: non-negative amounts, unique
// participants, and a total equal to amount. No share may exceed amount and
// the running total stops at amount, so the sum never overflows.
func ValidateShares(amount int64, shares []Share) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if len(shares) == 0 {
		return fmt.Errorf("must have at least one share")
	}

	ids := make([]string, len(shares))
	var total int64
	for i, s := range shares {
		if s.Amount < 0 {
			return fmt.Errorf("share for %s is negative", s.UserID)
		}
		if s.Amount > amount-total {
			return fmt.Errorf("shares exceed expense amount %d", amount)
		}
		ids[i] = s.UserID
		total += s.Amount
	}
	if dup := firstDuplicate(ids); dup != "" {
		return fmt.Errorf("participant %s listed twice", dup)
	}
	if total != amount {
		return fmt.Errorf("shares sum to %d, expense amount is %d", total, amount)
	}
	return nil
}

func checkAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if amount > MaxAmount {
		return fmt.Errorf("amount must be at most %d", MaxAmount)
	}
	return nil
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}
