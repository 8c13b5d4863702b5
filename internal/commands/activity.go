package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerlab/internal/activity"
)

func newActivityCommand() *cobra.Command {
	var errorsOnly bool

	cmd := &cobra.Command{
		Use:   "activity <log.csv>",
		Short: "Show an activity log written by session --log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := activity.Read(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, err := fmt.Fprintln(out, "no activity")
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				if errorsOnly && e.Outcome != activity.OutcomeError {
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Format(time.RFC3339), e.Step, e.Outcome, e.EntryID, e.Command, e.Details)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&errorsOnly, "errors", false, "show only failed commands")

	return cmd
}
