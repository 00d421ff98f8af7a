package calculator

import (
	"fmt"

	"github.com/mmynk/splitogram/internal/models"
)

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberID string
	Net      int64 // Positive = owed money, Negative = owes money
	Paid     int64 // Total amount paid across all expenses
	Share    int64 // Total of this member's expense shares
}

// NetBalances reduces a ledger snapshot to one balance per member.
//
// Algorithm:
//   - every member starts at 0
//   - payer: +paid total, participant: -share total
//   - completed settlement: debtor +amount, creditor -amount
//
// Members are returned in ledger (join) order. Accounts that appear in the
// ledger without a membership row are appended after the members, sorted by
// first appearance, so nothing is silently dropped.
func NetBalances(ledger *models.Ledger) []MemberBalance {
	index := make(map[string]int, len(ledger.Members))
	balances := make([]MemberBalance, 0, len(ledger.Members))

	entry := func(id string) *MemberBalance {
		if i, ok := index[id]; ok {
			return &balances[i]
		}
		index[id] = len(balances)
		balances = append(balances, MemberBalance{MemberID: id})
		return &balances[len(balances)-1]
	}

	for _, m := range ledger.Members {
		entry(m.UserID)
	}

	for _, id := range sortedKeys(ledger.Payments) {
		entry(id).Paid += ledger.Payments[id]
	}
	for _, id := range sortedKeys(ledger.Shares) {
		entry(id).Share += ledger.Shares[id]
	}

	for i := range balances {
		balances[i].Net = balances[i].Paid - balances[i].Share
	}

	for _, s := range ledger.Completed {
		if !s.Status.Completed() {
			continue
		}
		entry(s.FromUserID).Net += s.Amount // debtor paid
		entry(s.ToUserID).Net -= s.Amount   // creditor received
	}

	return balances
}

// CheckZeroSum returns an error when balances do not sum to zero.
func CheckZeroSum(balances []MemberBalance) error {
	nets := make([]int64, len(balances))
	for i, b := range balances {
		nets[i] = b.Net
	}
	return checkZeroSum(nets)
}

// CheckZeroSumMap is CheckZeroSum over a balance map.
func CheckZeroSumMap(balances map[string]int64) error {
	nets := make([]int64, 0, len(balances))
	for _, net := range balances {
		nets = append(nets, net)
	}
	return checkZeroSum(nets)
}

func checkZeroSum(nets []int64) error {
	var sum int64
	for _, net := range nets {
		next := sum + net
		if (net > 0 && next < sum) || (net < 0 && next > sum) {
			return fmt.Errorf("net balances overflow int64")
		}
		sum = next
	}
	if sum != 0 {
		return fmt.Errorf("net balances sum to %d, want 0", sum)
	}
	return nil
}

// BalanceOf returns the net balance of one member, 0 when absent.
func BalanceOf(balances []MemberBalance, memberID string) int64 {
	for _, b := range balances {
		if b.MemberID == memberID {
			return b.Net
		}
	}
	return 0
}
