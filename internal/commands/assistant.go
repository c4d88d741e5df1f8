package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/categorize"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Record an expense or income from a sentence or JSON object",
		Example: `  tally add "Spent 500 on food yesterday"
  tally add '{"transaction_type":"income","amount":"50000","title":"salary"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			res := a.svc.AddTransaction(cmd.Context(), a.session(opts), strings.Join(args, " "))
			return report(cmd.OutOrStdout(), res)
		},
	}
}

func newInsightCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insight [query]",
		Short: "Summarize income and spending for a month or year",
		Example: `  tally insight "how did I do last month"
  tally insight "summary for 2024"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			res := a.svc.FinancialInsight(cmd.Context(), a.session(opts), strings.Join(args, " "))
			return report(cmd.OutOrStdout(), res)
		},
	}
}

func newBudgetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "budget",
		Short: "Break down spending by category and suggest savings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			return report(cmd.OutOrStdout(), a.svc.OptimizeBudget(cmd.Context(), a.session(opts)))
		},
	}
}

func newGoalCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "goal <text>",
		Short:   "Check whether a savings goal is on track",
		Example: `  tally goal "I want to save ₹60,000 in 6 months"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()
			res := a.svc.TrackGoal(cmd.Context(), a.session(opts), strings.Join(args, " "))
			return report(cmd.OutOrStdout(), res)
		},
	}
}

func newClassifyCommand(opts *rootOptions) *cobra.Command {
	var income bool

	cmd := &cobra.Command{
		Use:   "classify <title>",
		Short: "Show the category a title would be filed under",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			cls, err := classifier(cfg)
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			r := cls.Classify(title)
			if income {
				r = categorize.ForIncome(title, r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%.0f\n", r.Tag, r.Method, r.Score)
			return nil
		},
	}

	cmd.Flags().BoolVar(&income, "income", false, "classify as an income title")

	return cmd
}
