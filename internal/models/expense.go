package models

// Expense is a payment made by one member on behalf of several. It is
// immutable after creation and always stored together with its shares.
type Expense struct {
	ID          string
	GroupID     string
	PaidBy      string
	Amount      int64
	Description string
	CreatedAt   int64

	// Shares split Amount among participants; they sum to Amount exactly.
	Shares []ExpenseShare
}

// ExpenseShare is one participant's part of an expense.
type ExpenseShare struct {
	ExpenseID   string
	UserID      string
	ShareAmount int64
}

// SharesTotal returns the sum of all share amounts.
func (e *Expense) SharesTotal() int64 {
	var total int64
	for _, s := range e.Shares {
		total += s.ShareAmount
	}
	return total
}
