package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent assistant activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Activity.Path == "" {
				return fmt.Errorf("activity log is disabled")
			}
			entries, err := activity.Open(cfg.Activity.Path).Read()
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tUSER\tOPERATION\tSTATUS\tDETAIL")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format(time.DateTime), e.User, e.Operation, e.Status, e.Detail)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show (0 for all)")

	return cmd
}
