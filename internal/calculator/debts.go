package calculator

import (
	"sort"

	"github.com/mmynk/splitogram/internal/models"
)

// party is one side of the matching with its remaining amount.
type party struct {
	id        string
	remaining int64
}

// Simplify turns net balances into a list of directed transfers that settles
// every balance.
//
// Creditors and debtors are each sorted descending by amount (stable, so equal
// amounts keep their input order), then matched greedily: the largest
// remaining creditor and debtor exchange min(credit, debt) and the cursor of
// whichever side reaches zero advances. This is the largest-first heuristic;
// it produces at most n-1 transfers for n nonzero balances but is not
// guaranteed to be the minimum.
//
// The input must sum to zero. Unbalanced input leaves the surplus unmatched.
func Simplify(balances []MemberBalance) []models.Debt {
	var creditors, debtors []party
	for _, b := range balances {
		switch {
		case b.Net > 0:
			creditors = append(creditors, party{id: b.MemberID, remaining: b.Net})
		case b.Net < 0:
			debtors = append(debtors, party{id: b.MemberID, remaining: -b.Net})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].remaining > creditors[j].remaining })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].remaining > debtors[j].remaining })

	debts := []models.Debt{}
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		c, d := &creditors[ci], &debtors[di]

		transfer := min(c.remaining, d.remaining)
		if transfer > 0 {
			debts = append(debts, models.Debt{From: d.id, To: c.id, Amount: transfer})
		}

		c.remaining -= transfer
		d.remaining -= transfer

		if c.remaining == 0 {
			ci++
		}
		if d.remaining == 0 {
			di++
		}
	}

	return debts
}

// SimplifyMap is Simplify over an unordered balance map. Keys are visited in
// sorted order so the result is reproducible.
func SimplifyMap(balances map[string]int64) []models.Debt {
	ordered := make([]MemberBalance, 0, len(balances))
	for _, id := range sortedKeys(balances) {
		ordered = append(ordered, MemberBalance{MemberID: id, Net: balances[id]})
	}
	return Simplify(ordered)
}

// DebtsFrom returns the debts owed by one member.
func DebtsFrom(debts []models.Debt, debtorID string) []models.Debt {
	var out []models.Debt
	for _, d := range debts {
		if d.From == debtorID {
			out = append(out, d)
		}
	}
	return out
}

// DebtsTo returns the debts owed to one member.
func DebtsTo(debts []models.Debt, creditorID string) []models.Debt {
	var out []models.Debt
	for _, d := range debts {
		if d.To == creditorID {
			out = append(out, d)
		}
	}
	return out
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
