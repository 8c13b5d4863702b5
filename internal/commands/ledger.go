package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerlab/internal/accounts"
	"github.com/cleared-dev/ledgerlab/internal/journal"
	"github.com/cleared-dev/ledgerlab/internal/ledger"
)

func newDemoCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Post every built-in scenario, showing totals after each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}
			a.cfg.Session.EchoTotals = true
			s := a.session(a.engine, cmd.OutOrStdout(), true)
			for _, line := range []string{"scenario all", "check"} {
				if err := s.Exec(line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newScenariosCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return a.session(a.engine, cmd.OutOrStdout(), true).Exec("scenarios")
		},
	}
}

func newChartCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Print the seed chart of accounts as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return accounts.WriteAccounts(cmd.OutOrStdout(), a.engine.Accounts())
		},
	}
}

func newReplayCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <journal.csv>",
		Short: "Rebuild a ledger from an exported journal and check it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening journal: %w", err)
			}
			defer f.Close()

			txns, err := journal.ReadTransactions(f)
			if err != nil {
				return err
			}
			engine, err := ledger.Replay(txns, a.opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "replayed %d transactions\n", len(txns)); err != nil {
				return err
			}
			s := a.session(engine, out, true)
			for _, line := range []string{"totals", "check"} {
				if err := s.Exec(line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
