package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitogram/internal/auth"
	"github.com/mmynk/splitogram/internal/models"
)

func tokenCmd() *cobra.Command {
	var user models.User
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is required")
			}

			user.ID = args[0]
			if user.DisplayName == "" {
				user.DisplayName = user.ID
			}
			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).Generate(&user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user.DisplayName, "name", "", "display name (defaults to the user id)")
	cmd.Flags().StringVar(&user.Username, "username", "", "optional handle")
	cmd.Flags().Int64Var(&user.TelegramID, "telegram-id", 0, "chat id notifications are sent to")
	return cmd
}
