package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/snapshot"
)

func validateCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate every expense and payment in a trip snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			trip, err := snapshot.LoadFile(file)
			if err != nil {
				return err
			}
			slog.Debug("Snapshot loaded", "file", file, "expenses", len(trip.Expenses))

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d participants, %d expenses, %d payments\n",
				trip.Roster.Len(), len(trip.Expenses), len(trip.Payments))
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Trip snapshot (YAML, required)")
	_ = c.MarkFlagRequired("file")
	return c
}
