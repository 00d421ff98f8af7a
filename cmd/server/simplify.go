package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitogram/internal/calculator"
)

func simplifyCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "simplify [balances.json]",
		Short: "Print the transfers that settle a balance map",
		Long: `Reads a JSON object of member id to net balance in micro-USDT
(positive = owed money) from a file or stdin and prints the simplified debts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runSimplify(in, cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print debts as JSON")
	return cmd
}

func runSimplify(in io.Reader, out io.Writer, asJSON bool) error {
	balances := map[string]int64{}
	if err := json.NewDecoder(in).Decode(&balances); err != nil {
		return fmt.Errorf("decode balances: %w", err)
	}

	if err := calculator.CheckZeroSumMap(balances); err != nil {
		return err
	}

	debts := calculator.SimplifyMap(balances)
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(debts)
	}

	if len(debts) == 0 {
		fmt.Fprintln(out, "all settled")
		return nil
	}
	for _, d := range debts {
		fmt.Fprintf(out, "%s -> %s: %s USDT\n", d.From, d.To, decimal.New(d.Amount, -6).StringFixed(2))
	}
	return nil
}
