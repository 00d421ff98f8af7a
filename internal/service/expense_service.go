package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/calculator"
	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/storage"
	"github.com/mmynk/splitogram/pkg/api"
)

const defaultExpensePage = 50

// ExpenseEvents is notified after an expense is stored.
type ExpenseEvents interface {
	ExpenseCreated(expense *models.Expense)
}

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store  storage.Store
	events ExpenseEvents
}

// NewExpenseService creates a new ExpenseService. events may be nil.
func NewExpenseService(store storage.Store, events ExpenseEvents) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

// CreateExpense logs an expense split equally among ParticipantIDs or by
// explicit Shares. The payer defaults to the caller.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	slog.Info("CreateExpense request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount,
		"participants", len(msg.ParticipantIDs)+len(msg.Shares),
	)

	expense := &models.Expense{
		GroupID:     msg.GroupID,
		PaidBy:      msg.PaidBy,
		Amount:      msg.Amount,
		Description: msg.Description,
	}
	if expense.PaidBy == "" {
		expense.PaidBy = userID
	}

	err = s.store.WithinTx(ctx, func(tx storage.Store) error {
		if _, err := requireMember(ctx, tx, msg.GroupID, userID); err != nil {
			return err
		}

		shares, err := splitExpense(msg)
		if err != nil {
			return err
		}

		members, err := tx.ListMembers(ctx, msg.GroupID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		if err := checkParticipants(expense.PaidBy, shares, members); err != nil {
			return err
		}

		expense.Shares = make([]models.ExpenseShare, len(shares))
		for i, sh := range shares {
			expense.Shares[i] = models.ExpenseShare{UserID: sh.UserID, ShareAmount: sh.Amount}
		}
		if err := tx.CreateExpense(ctx, expense); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, toConnectError("CreateExpense", err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID)
	if s.events != nil {
		s.events.ExpenseCreated(expense)
	}

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses returns a page of the group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError("ListExpenses", err)
	}

	limit := req.Msg.Limit
	if limit == 0 {
		limit = defaultExpensePage
	}
	expenses, err := s.store.ListExpenses(ctx, req.Msg.GroupID, limit, req.Msg.Offset)
	if err != nil {
		return nil, toConnectError("ListExpenses", fmt.Errorf("list expenses: %w", err))
	}

	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// splitExpense turns the request into shares that sum to the amount.
func splitExpense(msg *api.CreateExpenseRequest) ([]calculator.Share, error) {
	hasParticipants := len(msg.ParticipantIDs) > 0
	hasShares := len(msg.Shares) > 0
	if hasParticipants == hasShares {
		return nil, apperror.Validation("exactly one of participantIds and shares must be set")
	}

	if hasParticipants {
		shares, err := calculator.SplitEqually(msg.Amount, msg.ParticipantIDs)
		if err != nil {
			return nil, apperror.Validation("%s", err.Error())
		}
		return shares, nil
	}

	shares := make([]calculator.Share, len(msg.Shares))
	for i, sh := range msg.Shares {
		shares[i] = calculator.Share{UserID: sh.UserID, Amount: sh.ShareAmount}
	}
	if err := calculator.ValidateShares(msg.Amount, shares); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	return shares, nil
}

// checkParticipants requires at least two participants, all of them group
// members, with the payer among them.
func checkParticipants(paidBy string, shares []calculator.Share, members []models.Member) error {
	if len(shares) < 2 {
		return apperror.Validation("an expense needs at least 2 participants")
	}

	isMember := make(map[string]bool, len(members))
	for _, m := range members {
		isMember[m.UserID] = true
	}
	if !isMember[paidBy] {
		return apperror.Validation("payer %s is not a member of this group", paidBy)
	}

	payerIncluded := false
	for _, sh := range shares {
		if !isMember[sh.UserID] {
			return apperror.Validation("participant %s is not a member of this group", sh.UserID)
		}
		if sh.UserID == paidBy {
			payerIncluded = true
		}
	}
	if !payerIncluded {
		return apperror.Validation("payer must be one of the participants")
	}
	return nil
}
