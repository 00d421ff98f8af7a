package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitogram/internal/config"
	"github.com/mmynk/splitogram/pkg/logging"
)

var envFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "splitogram",
		Short:        "Group expense splitting with USDT settlement on TON",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	root.AddCommand(serveCmd(), simplifyCmd(), tokenCmd())
	return root
}

// loadConfig reads the configuration and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Configure(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}
