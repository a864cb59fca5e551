package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/ledger"
)

func splitCmd() *cobra.Command {
	var total string
	var policy string
	var custom []string

	c := &cobra.Command{
		Use:   "split PARTICIPANT...",
		Short: "Preview how a total is divided among participants",
		Example: `  ledgerctl split --total 100 alice bob carol
  ledgerctl split --total 30 --policy custom --custom alice=10 --custom bob=20 alice bob`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ledger.ParseAmount(total)
			if err != nil {
				return err
			}
			p, err := ledger.ParseSplitPolicy(policy)
			if err != nil {
				return err
			}
			amounts, err := parseCustom(custom)
			if err != nil {
				return err
			}

			subset := make([]ledger.ParticipantID, len(args))
			for i, a := range args {
				subset[i] = ledger.ParticipantID(a)
			}

			shares, err := ledger.CalculateSplit(amount, subset, p, amounts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range shares {
				fmt.Fprintf(out, "%s\t%s\n", s.ParticipantID, s.Amount)
			}
			fmt.Fprintf(out, "per person\t%s\n", ledger.PerPersonShare(amount, len(shares)))
			return nil
		},
	}

	c.Flags().StringVarP(&total, "total", "t", "", "Expense total, e.g. 42.50 (required)")
	c.Flags().StringVarP(&policy, "policy", "p", string(ledger.SplitEqual), "Split policy: equal or custom")
	c.Flags().StringArrayVar(&custom, "custom", nil, "Custom amount as id=amount (repeatable)")
	_ = c.MarkFlagRequired("total")
	return c
}

func parseCustom(pairs []string) (map[ledger.ParticipantID]ledger.Amount, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[ledger.ParticipantID]ledger.Amount, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --custom %q: want id=amount", pair)
		}
		amount, err := ledger.ParseAmount(value)
		if err != nil {
			return nil, fmt.Errorf("invalid --custom %q: %w", pair, err)
		}
		out[ledger.ParticipantID(id)] = amount
	}
	return out, nil
}
