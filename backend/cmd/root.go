package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/greatchat/onboarding/backend/config"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

var (
	configPath string
	cfg        *config.Config
)

// Execute runs the onboarding command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "onboarding",
		Short:        "Business onboarding service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, defaulted, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = loaded

			logger.Init(&logger.Config{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Output: cmd.ErrOrStderr(),
			})
			if defaulted {
				slog.Info("config file not found, using defaults", "path", configPath)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")

	root.AddCommand(serveCmd(), draftCmd(), progressCmd())
	return root
}

// loadConfig reads --config. A missing default file falls back to the
// built-in defaults; a missing file named explicitly is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, bool, error) {
	loaded, err := config.Load(configPath)
	if err == nil {
		return loaded, false, nil
	}
	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), true, nil
	}
	return nil, false, fmt.Errorf("failed to load config %s: %w", configPath, err)
}
