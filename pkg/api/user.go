package api

type SetWalletRequest struct {
	Address string `json:"address" validate:"required,min=1,max=128"`
}

type SetWalletResponse struct {
	WalletAddress string `json:"walletAddress"`
}

type ClearWalletRequest struct{}

type ClearWalletResponse struct{}
