package api

type GetBalancesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetBalancesResponse struct {
	Balances []MemberBalance `json:"balances"`
	Debts    []Debt          `json:"debts"`
}

type GetMyBalanceRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetMyBalanceResponse struct {
	NetBalance int64  `json:"netBalance"`
	IOwe       []Debt `json:"iOwe"`
	OwedToMe   []Debt `json:"owedToMe"`
}
