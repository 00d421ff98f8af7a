package service

import (
	"github.com/mmynk/splitogram/internal/calculator"
	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/settlement"
	"github.com/mmynk/splitogram/pkg/api"
)

func groupToAPI(g *models.Group) api.Group {
	return api.Group{
		ID:         g.ID,
		Name:       g.Name,
		InviteCode: g.InviteCode,
		CreatedBy:  g.CreatedBy,
		CreatedAt:  g.CreatedAt,
	}
}

func membersToAPI(members []models.Member) []api.Member {
	out := make([]api.Member, len(members))
	for i, m := range members {
		out[i] = api.Member{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Username:    m.Username,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		}
	}
	return out
}

func expenseToAPI(e *models.Expense) api.Expense {
	shares := make([]api.Share, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = api.Share{UserID: s.UserID, ShareAmount: s.ShareAmount}
	}
	return api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidBy:      e.PaidBy,
		Amount:      e.Amount,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		Shares:      shares,
	}
}

// userRef names id, falling back to the bare id for unknown users.
func userRef(users map[string]*models.User, id string) api.UserRef {
	u, ok := users[id]
	if !ok {
		return api.UserRef{UserID: id, DisplayName: id}
	}
	return api.UserRef{
		UserID:        u.ID,
		DisplayName:   u.DisplayName,
		Username:      u.Username,
		WalletAddress: u.WalletAddress,
	}
}

func debtsToAPI(debts []models.Debt, users map[string]*models.User) []api.Debt {
	out := make([]api.Debt, len(debts))
	for i, d := range debts {
		out[i] = api.Debt{
			From:   userRef(users, d.From),
			To:     userRef(users, d.To),
			Amount: d.Amount,
		}
	}
	return out
}

func balancesToAPI(balances []calculator.MemberBalance, users map[string]*models.User) []api.MemberBalance {
	out := make([]api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = api.MemberBalance{
			UserID:      b.MemberID,
			DisplayName: userRef(users, b.MemberID).DisplayName,
			Paid:        b.Paid,
			Share:       b.Share,
			Net:         b.Net,
		}
	}
	return out
}

func settlementToAPI(s *models.Settlement, users map[string]*models.User) api.Settlement {
	return api.Settlement{
		ID:        s.ID,
		GroupID:   s.GroupID,
		From:      userRef(users, s.FromUserID),
		To:        userRef(users, s.ToUserID),
		Amount:    s.Amount,
		Status:    string(s.Status),
		TxHash:    s.TxRef,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func verificationToAPI(r *settlement.VerificationResult, users map[string]*models.User) *api.VerificationResponse {
	return &api.VerificationResponse{
		Settlement: settlementToAPI(r.Settlement, users),
		Status:     string(r.Status()),
		Detail:     r.Detail,
		Reason:     string(r.Reason),
	}
}

func userIDs(balances []calculator.MemberBalance) []string {
	ids := make([]string, len(balances))
	for i, b := range balances {
		ids[i] = b.MemberID
	}
	return ids
}
