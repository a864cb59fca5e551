package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/snapshot"
)

func balancesCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "balances",
		Short: "Print what each participant paid, owes, and their net position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			trip, err := snapshot.LoadFile(file)
			if err != nil {
				return err
			}
			return printBalances(cmd.OutOrStdout(), trip, tripBalances(trip))
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Trip snapshot (YAML, required)")
	_ = c.MarkFlagRequired("file")
	return c
}

func settleCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "settle",
		Short: "Print the transfers that settle the trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			trip, err := snapshot.LoadFile(file)
			if err != nil {
				return err
			}
			transfers := ledger.ComputeSettlement(tripBalances(trip))

			out := cmd.OutOrStdout()
			if len(transfers) == 0 {
				fmt.Fprintln(out, "(all settled)")
				return nil
			}
			for _, tr := range transfers {
				fmt.Fprintf(out, "%s -> %s  %s %s\n", name(trip, tr.From), name(trip, tr.To), tr.Amount, trip.Currency)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Trip snapshot (YAML, required)")
	_ = c.MarkFlagRequired("file")
	return c
}

func tripBalances(trip *snapshot.Trip) ledger.Balances {
	b := ledger.ComputeBalances(trip.Roster.Participants(), trip.Expenses)
	return ledger.ApplyPayments(b, trip.Payments)
}

// printBalances writes one row per participant in roster order.
func printBalances(w io.Writer, trip *snapshot.Trip, b ledger.Balances) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PARTICIPANT\tPAID\tOWED\tNET\t")
	for _, p := range trip.Roster.Participants() {
		bal := b[p.ID]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", p.Name, bal.Paid, bal.Owed, bal.Net)
	}
	var spent ledger.Amount
	for _, e := range trip.Expenses {
		spent += e.Total()
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nTotal spent: %s %s\n", spent, trip.Currency)
	return err
}

func name(trip *snapshot.Trip, id ledger.ParticipantID) string {
	if p, ok := trip.Roster.Get(id); ok {
		return p.Name
	}
	return string(id)
}
