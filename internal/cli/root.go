// Package cli implements ledgerctl, an offline companion to the server that
// works on YAML trip snapshots.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/pkg/logging"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Check trip snapshots and compute balances and settlements",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logging.SetupWithLevel(level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(validateCmd())
	cmd.AddCommand(balancesCmd())
	cmd.AddCommand(settleCmd())
	cmd.AddCommand(splitCmd())
	cmd.AddCommand(tokenCmd())
	return cmd
}
