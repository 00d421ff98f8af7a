package api

type CreateSettlementsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type CreateSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type GetSettlementRequest struct {
	SettlementID string `json:"settlementId" validate:"required"`
}

type GetSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type GetTxParamsRequest struct {
	SettlementID string `json:"settlementId" validate:"required"`
}

type GetTxParamsResponse struct {
	SettlementID      string `json:"settlementId"`
	Amount            int64  `json:"amount"`
	RecipientAddress  string `json:"recipientAddress"`
	USDTMasterAddress string `json:"usdtMasterAddress"`
	Comment           string `json:"comment"`
}

// VerifySettlementRequest presents proof of an on-chain payment: a
// transaction hash, a signed BOC, or both.
type VerifySettlementRequest struct {
	SettlementID string `json:"settlementId" validate:"required"`
	TxHash       string `json:"txHash,omitempty" validate:"required_without=Boc,max=128"`
	Boc          string `json:"boc,omitempty" validate:"required_without=TxHash"`
}

// VerificationResponse reports where a settlement stands. Detail explains a
// payment_pending status; Reason is set when the oracle was unavailable.
type VerificationResponse struct {
	Settlement Settlement `json:"settlement"`
	Status     string     `json:"status"`
	Detail     string     `json:"detail,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

type RefreshSettlementRequest struct {
	SettlementID string `json:"settlementId" validate:"required"`
}

type MarkExternalRequest struct {
	SettlementID string `json:"settlementId" validate:"required"`
}

type MarkExternalResponse struct {
	Settlement Settlement `json:"settlement"`
}
