package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/internal/calculator"
	"github.com/mmynk/splitogram/internal/ledger"
	"github.com/mmynk/splitogram/internal/storage"
	"github.com/mmynk/splitogram/pkg/api"
)

// BalanceService implements the Connect BalanceService
type BalanceService struct {
	store    storage.Store
	balances *ledger.Aggregator
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store, balances: ledger.NewAggregator(store)}
}

// GetBalances returns every member's balance and the simplified debts of
// the group.
func (s *BalanceService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError("GetBalances", err)
	}

	balances, err := s.balances.ComputeNetBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}
	users, err := lookupUsers(ctx, s.store, userIDs(balances)...)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances: balancesToAPI(balances, users),
		Debts:    debtsToAPI(calculator.Simplify(balances), users),
	}), nil
}

// GetMyBalance returns the caller's net balance and the simplified debts
// they pay or receive.
func (s *BalanceService) GetMyBalance(ctx context.Context, req *connect.Request[api.GetMyBalanceRequest]) (*connect.Response[api.GetMyBalanceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, toConnectError("GetMyBalance", err)
	}

	balances, err := s.balances.ComputeNetBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetMyBalance", err)
	}
	users, err := lookupUsers(ctx, s.store, userIDs(balances)...)
	if err != nil {
		return nil, toConnectError("GetMyBalance", err)
	}

	debts := calculator.Simplify(balances)
	return connect.NewResponse(&api.GetMyBalanceResponse{
		NetBalance: calculator.BalanceOf(balances, userID),
		IOwe:       debtsToAPI(calculator.DebtsFrom(debts, userID), users),
		OwedToMe:   debtsToAPI(calculator.DebtsTo(debts, userID), users),
	}), nil
}
