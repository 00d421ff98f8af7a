package settlement

import (
	"context"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/models"
)

// TxParams is what a wallet needs to build the jetton transfer for a
// settlement.
type TxParams struct {
	SettlementID      string
	Amount            int64
	RecipientAddress  string
	USDTMasterAddress string
	Comment           string
}

// TransferComment tags an on-chain transfer with the settlement it pays.
func TransferComment(settlementID string) string {
	return "splitogram:" + settlementID
}

// TxParams returns transfer parameters for an open settlement to its debtor.
func (m *Manager) TxParams(ctx context.Context, actorID, settlementID string) (*TxParams, error) {
	s, err := m.load(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if s.FromUserID != actorID {
		return nil, apperror.NotDebtor("only the debtor can get transaction params")
	}
	if s.Status != models.StatusOpen {
		return nil, apperror.InvalidStatus("settlement is %s, expected %s", s.Status, models.StatusOpen)
	}

	creditor, err := m.store.GetUser(ctx, s.ToUserID)
	if err != nil {
		return nil, err
	}
	if creditor.WalletAddress == "" {
		return nil, apperror.Validation("creditor has not connected a wallet")
	}
	if m.cfg.USDTMasterAddress == "" {
		return nil, apperror.New(apperror.KindInternal, "USDT contract not configured")
	}

	return &TxParams{
		SettlementID:      s.ID,
		Amount:            s.Amount,
		RecipientAddress:  creditor.WalletAddress,
		USDTMasterAddress: m.cfg.USDTMasterAddress,
		Comment:           TransferComment(s.ID),
	}, nil
}
