package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerlab/internal/activity"
)

func newSessionCommand(flags *globalFlags) *cobra.Command {
	var strict bool
	var logPath string

	cmd := &cobra.Command{
		Use:   "session [script]",
		Short: "Run ledger commands from a script or stdin",
		Long: `Run ledger commands one per line from a script file, or from stdin when
no script is given. Type "help" for the command list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.load(cmd)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) > 0 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()
				in = f
			}

			s := a.session(a.engine, cmd.OutOrStdout(), strict)
			failed, runErr := s.Run(in)

			if logPath != "" {
				if err := activity.Append(logPath, s.Activity()); err != nil {
					a.log.WithError(err).WithField("path", logPath).Warn("Session.ActivityLog.Error")
				}
			}
			a.log.WithField("failed", failed).Info("Session.Complete")
			return runErr
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first failing command")
	cmd.Flags().StringVar(&logPath, "log", "", "append the commands run to this activity CSV")

	return cmd
}
