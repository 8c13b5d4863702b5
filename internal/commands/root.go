package commands

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerlab/internal/accounts"
	"github.com/cleared-dev/ledgerlab/internal/buildinfo"
	"github.com/cleared-dev/ledgerlab/internal/config"
	"github.com/cleared-dev/ledgerlab/internal/ledger"
	"github.com/cleared-dev/ledgerlab/internal/logging"
	"github.com/cleared-dev/ledgerlab/internal/session"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	envFile    string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "ledgerlab",
		Short:   "Double-entry bookkeeping sandbox organised by CLEAR classification",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to ledgerlab.yaml (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file with LEDGERLAB_* overrides")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newSessionCommand(flags))
	rootCmd.AddCommand(newDemoCommand(flags))
	rootCmd.AddCommand(newScenariosCommand(flags))
	rootCmd.AddCommand(newChartCommand(flags))
	rootCmd.AddCommand(newReplayCommand(flags))
	rootCmd.AddCommand(newActivityCommand())

	return rootCmd
}

// app is the resolved runtime shared by subcommands.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	opts   []ledger.Option
	engine *ledger.Engine
}

func (f *globalFlags) load(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Resolve(f.configPath, f.envFile)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	opts := []ledger.Option{ledger.WithLogger(log)}
	if chart := cfg.Ledger.SeedChart; chart != "" {
		seed, err := accounts.Load(chart)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ledger.WithSeed(seed))
	}

	engine, err := ledger.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ledger: %w", err)
	}
	log.WithFields(logrus.Fields{
		"config":   f.configPath,
		"accounts": len(engine.Accounts()),
	}).Debug("Commands.Load.Complete")

	return &app{cfg: cfg, log: log, opts: opts, engine: engine}, nil
}

func (a *app) session(engine *ledger.Engine, out io.Writer, strict bool) *session.Session {
	return session.New(engine, out, sessionOptions(a.cfg.Session, strict), a.log)
}

func sessionOptions(cfg config.SessionConfig, strict bool) session.Options {
	return session.Options{
		EchoTotals:  cfg.EchoTotals,
		NewestFirst: cfg.HistoryOrder == "newest",
		ScaleFloor:  decimal.NewFromInt(cfg.ScaleFloor),
		Strict:      strict,
	}
}
