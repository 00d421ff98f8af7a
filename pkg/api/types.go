package api

// Group is a group as seen by one of its members.
type Group struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"inviteCode"`
	CreatedBy  string `json:"createdBy"`
	CreatedAt  int64  `json:"createdAt"`
}

// Member is a group member with profile fields.
type Member struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username,omitempty"`
	Role        string `json:"role"`
	JoinedAt    int64  `json:"joinedAt"`
}

// UserRef names a user in debts and settlements.
type UserRef struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	Username      string `json:"username,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// Share is one participant's part of an expense.
type Share struct {
	UserID      string `json:"userId" validate:"required"`
	ShareAmount int64  `json:"shareAmount" validate:"gte=0,lte=1000000000000000"`
}

// Expense is a logged group expense.
type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"groupId"`
	PaidBy      string  `json:"paidBy"`
	Amount      int64   `json:"amount"`
	Description string  `json:"description"`
	CreatedAt   int64   `json:"createdAt"`
	Shares      []Share `json:"shares"`
}

// MemberBalance is one member's position in a group.
type MemberBalance struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Paid        int64  `json:"paid"`
	Share       int64  `json:"share"`
	Net         int64  `json:"net"`
}

// Debt is a simplified transfer obligation.
type Debt struct {
	From   UserRef `json:"from"`
	To     UserRef `json:"to"`
	Amount int64   `json:"amount"`
}

// Settlement is a tracked payment of a debt.
type Settlement struct {
	ID        string  `json:"id"`
	GroupID   string  `json:"groupId"`
	From      UserRef `json:"from"`
	To        UserRef `json:"to"`
	Amount    int64   `json:"amount"`
	Status    string  `json:"status"`
	TxHash    string  `json:"txHash,omitempty"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}
