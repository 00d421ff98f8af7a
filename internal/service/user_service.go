package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/internal/apperror"
	"github.com/mmynk/splitogram/internal/storage"
	"github.com/mmynk/splitogram/pkg/api"
)

// UserService implements the Connect UserService
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// SetWallet connects the caller's TON wallet.
func (s *UserService) SetWallet(ctx context.Context, req *connect.Request[api.SetWalletRequest]) (*connect.Response[api.SetWalletResponse], error) {
	if err := s.setWallet(ctx, req.Msg.Address); err != nil {
		return nil, toConnectError("SetWallet", err)
	}
	return connect.NewResponse(&api.SetWalletResponse{WalletAddress: req.Msg.Address}), nil
}

// ClearWallet disconnects the caller's wallet.
func (s *UserService) ClearWallet(ctx context.Context, req *connect.Request[api.ClearWalletRequest]) (*connect.Response[api.ClearWalletResponse], error) {
	if err := s.setWallet(ctx, ""); err != nil {
		return nil, toConnectError("ClearWallet", err)
	}
	return connect.NewResponse(&api.ClearWalletResponse{}), nil
}

func (s *UserService) setWallet(ctx context.Context, address string) error {
	return s.store.WithinTx(ctx, func(tx storage.Store) error {
		user, err := registerCaller(ctx, tx)
		if err != nil {
			return err
		}
		err = tx.SetWallet(ctx, user.ID, address)
		if errors.Is(err, storage.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		if err != nil {
			return fmt.Errorf("set wallet: %w", err)
		}
		slog.Info("Wallet updated", "user_id", user.ID, "connected", address != "")
		return nil
	})
}
