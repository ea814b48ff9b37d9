// Package root contains the root command for the application
package root

import (
	"jmoreau/txintel/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the resolved application configuration, populated before any
	// subcommand runs.
	Cfg *config.Config

	// UserID is the user every command operates on.
	UserID string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "txintel",
		Short: "Transaction intelligence: automatic categorization and duplicate cleanup.",
		Long: `txintel categorizes financial transactions using embedding similarity
search with rule and default fallbacks, and detects and cleans up
duplicate transactions inserted twice by different import paths.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to txintel!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)
			return nil
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&UserID, "user", "u", "", "User id to operate on")
}
