package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerlab/internal/accounts"
	"github.com/cleared-dev/ledgerlab/internal/config"
)

const (
	configFile = "ledgerlab.yaml"
	chartFile  = "chart.csv"
	scriptFile = "opening.session"
)

const openingScript = `# Replays the built-in teaching scenarios.
# Run with: ledgerlab --config ledgerlab.yaml session opening.session
scenario all
history
check
`

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a ledgerlab workspace with a config and chart of accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledgerlab workspace at %s\n", absDir)
			return err
		},
	}

	return cmd
}

func runInit(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, configFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	// Write ledgerlab.yaml.
	cfg := config.Default()
	cfg.Ledger.SeedChart = chartFile
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	f, err := os.Create(filepath.Join(dir, chartFile))
	if err != nil {
		return fmt.Errorf("creating chart of accounts: %w", err)
	}
	if err := accounts.WriteAccounts(f, accounts.DefaultChart()); err != nil {
		f.Close()
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing chart of accounts: %w", err)
	}

	// Write a starter session script.
	if err := os.WriteFile(filepath.Join(dir, scriptFile), []byte(openingScript), 0o644); err != nil {
		return fmt.Errorf("writing session script: %w", err)
	}

	return nil
}
