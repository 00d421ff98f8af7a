package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/internal/models"
	"github.com/mmynk/splitogram/internal/settlement"
	"github.com/mmynk/splitogram/internal/storage"
	"github.com/mmynk/splitogram/pkg/api"
)

// SettlementService implements the Connect SettlementService on top of the
// settlement lifecycle manager.
type SettlementService struct {
	store   storage.UserStore
	manager *settlement.Manager
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.UserStore, manager *settlement.Manager) *SettlementService {
	return &SettlementService{store: store, manager: manager}
}

// CreateSettlements derives the open settlements that pay off the caller's
// debts in a group.
func (s *SettlementService) CreateSettlements(ctx context.Context, req *connect.Request[api.CreateSettlementsRequest]) (*connect.Response[api.CreateSettlementsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	settlements, err := s.manager.Derive(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("CreateSettlements", err)
	}

	out, err := s.settlementsToAPI(ctx, settlements)
	if err != nil {
		return nil, toConnectError("CreateSettlements", err)
	}

	slog.Info("Settlements derived", "group_id", req.Msg.GroupID, "user_id", userID, "count", len(out))

	return connect.NewResponse(&api.CreateSettlementsResponse{Settlements: out}), nil
}

// GetSettlement returns a settlement to its debtor or creditor.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.manager.Get(ctx, userID, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError("GetSettlement", err)
	}
	users, err := lookupUsers(ctx, s.store, st.FromUserID, st.ToUserID)
	if err != nil {
		return nil, toConnectError("GetSettlement", err)
	}

	return connect.NewResponse(&api.GetSettlementResponse{Settlement: settlementToAPI(st, users)}), nil
}

// ListSettlements returns every settlement of a group.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	settlements, err := s.manager.ListByGroup(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListSettlements", err)
	}
	out, err := s.settlementsToAPI(ctx, settlements)
	if err != nil {
		return nil, toConnectError("ListSettlements", err)
	}

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// GetTxParams returns what the debtor's wallet needs to pay a settlement.
func (s *SettlementService) GetTxParams(ctx context.Context, req *connect.Request[api.GetTxParamsRequest]) (*connect.Response[api.GetTxParamsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	params, err := s.manager.TxParams(ctx, userID, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError("GetTxParams", err)
	}

	return connect.NewResponse(&api.GetTxParamsResponse{
		SettlementID:      params.SettlementID,
		Amount:            params.Amount,
		RecipientAddress:  params.RecipientAddress,
		USDTMasterAddress: params.USDTMasterAddress,
		Comment:           params.Comment,
	}), nil
}

// VerifySettlement starts verification of an on-chain payment.
func (s *SettlementService) VerifySettlement(ctx context.Context, req *connect.Request[api.VerifySettlementRequest]) (*connect.Response[api.VerificationResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("VerifySettlement request received",
		"settlement_id", req.Msg.SettlementID,
		"has_tx_hash", req.Msg.TxHash != "",
		"has_boc", req.Msg.Boc != "",
	)

	result, err := s.manager.BeginVerification(ctx, userID, req.Msg.SettlementID, settlement.Proof{
		TxRef: req.Msg.TxHash,
		Blob:  req.Msg.Boc,
	})
	if err != nil {
		return nil, toConnectError("VerifySettlement", err)
	}
	return s.verificationResponse(ctx, "VerifySettlement", result)
}

// RefreshSettlement re-checks a pending payment with the oracle.
func (s *SettlementService) RefreshSettlement(ctx context.Context, req *connect.Request[api.RefreshSettlementRequest]) (*connect.Response[api.VerificationResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.manager.Refresh(ctx, userID, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError("RefreshSettlement", err)
	}
	return s.verificationResponse(ctx, "RefreshSettlement", result)
}

// MarkExternal lets the creditor record a payment made outside the chain.
func (s *SettlementService) MarkExternal(ctx context.Context, req *connect.Request[api.MarkExternalRequest]) (*connect.Response[api.MarkExternalResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.manager.MarkExternal(ctx, userID, req.Msg.SettlementID)
	if err != nil {
		return nil, toConnectError("MarkExternal", err)
	}
	users, err := lookupUsers(ctx, s.store, st.FromUserID, st.ToUserID)
	if err != nil {
		return nil, toConnectError("MarkExternal", err)
	}

	slog.Info("Settlement marked external", "settlement_id", st.ID, "user_id", userID)

	return connect.NewResponse(&api.MarkExternalResponse{Settlement: settlementToAPI(st, users)}), nil
}

func (s *SettlementService) verificationResponse(ctx context.Context, method string, result *settlement.VerificationResult) (*connect.Response[api.VerificationResponse], error) {
	st := result.Settlement
	users, err := lookupUsers(ctx, s.store, st.FromUserID, st.ToUserID)
	if err != nil {
		return nil, toConnectError(method, err)
	}
	if result.Reason != "" {
		slog.Warn(method+" left settlement pending", "settlement_id", st.ID, "reason", result.Reason)
	}
	return connect.NewResponse(verificationToAPI(result, users)), nil
}

func (s *SettlementService) settlementsToAPI(ctx context.Context, settlements []*models.Settlement) ([]api.Settlement, error) {
	ids := make([]string, 0, 2*len(settlements))
	for _, st := range settlements {
		ids = append(ids, st.FromUserID, st.ToUserID)
	}
	users, err := lookupUsers(ctx, s.store, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = settlementToAPI(st, users)
	}
	return out, nil
}
