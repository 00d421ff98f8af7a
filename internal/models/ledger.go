package models

// Ledger is everything that moves a group's balances, read from one
// consistent snapshot.
type Ledger struct {
	GroupID string

	// Members in join order.
	Members []Member

	// Payments is the total each member paid across the group's expenses.
	Payments map[string]int64

	// Shares is the total of each member's expense shares.
	Shares map[string]int64

	// Completed holds settlements in a terminal status only.
	Completed []Settlement
}

// Debt is a single directed transfer obligation. It is never persisted.
type Debt struct {
	From   string
	To     string
	Amount int64
}
