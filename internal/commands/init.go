package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/categorize"
	"github.com/tally-dev/tally/internal/config"
)

const rulesPath = "rules/categories.yaml"

func newInitCommand() *cobra.Command {
	var currency string
	var backendName string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Tally workspace",
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

			return runInit(cmd.OutOrStdout(), absDir, currency, backendName)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "₹", "currency symbol used in reports")
	cmd.Flags().StringVar(&backendName, "backend", config.BackendCSV, "store backend (memory, csv, sqlite, http)")

	return cmd
}

func runInit(out io.Writer, dir, currency, backendName string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default()
	cfg.Currency.Symbol = currency
	cfg.Store.Backend = backendName
	cfg.Categorizer.RulesFile = rulesPath
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		"data",
		"rules",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	rules, err := categorize.MarshalRules(categorize.DefaultRules())
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, rulesPath), rules, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	// Ledger data and logs stay out of version control.
	gitignore := "data/\nlogs/\nimport/processed/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized Tally workspace at %s\n", dir)
	return nil
}
