package api

// CreateExpenseRequest logs an expense. Exactly one of ParticipantIDs
// (equal split) and Shares (explicit amounts) must be set.
type CreateExpenseRequest struct {
	GroupID        string   `json:"groupId" validate:"required"`
	Amount         int64    `json:"amount" validate:"gt=0,lte=1000000000000000"`
	Description    string   `json:"description" validate:"required,max=500"`
	PaidBy         string   `json:"paidBy,omitempty"`
	ParticipantIDs []string `json:"participantIds,omitempty" validate:"omitempty,min=2,dive,required"`
	Shares         []Share  `json:"shares,omitempty" validate:"omitempty,min=2,dive"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Limit   int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
	Offset  int    `json:"offset,omitempty" validate:"gte=0"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}
