package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/config"
)

// ErrFailed is returned when an operation reported a failure. Its message
// has already been printed.
var ErrFailed = errors.New("operation failed")

type rootOptions struct {
	configPath string
	user       string
	token      string
	today      string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal finance assistant",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.FileName, "path to the config file")
	flags.StringVar(&opts.user, "user", envOr("TALLY_USER", "local"), "user id")
	flags.StringVar(&opts.token, "token", envOr("TALLY_AUTH_TOKEN", "local"), "auth token forwarded to the store")
	flags.StringVar(&opts.today, "today", "", "override today's date (YYYY-MM-DD)")

	rootCmd.AddCommand(
		newInitCommand(),
		newAddCommand(opts),
		newInsightCommand(opts),
		newBudgetCommand(opts),
		newGoalCommand(opts),
		newClassifyCommand(opts),
		newImportCommand(opts),
		newHistoryCommand(opts),
		newServeCommand(opts),
		newTokenCommand(opts),
	)

	return rootCmd
}
