package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/assistant"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/log"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import a bank CSV export",
		Long: `Import a bank CSV export. With no file, every CSV in import/ is imported
and moved to import/processed/ once at least one row was recorded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			registry := importer.DefaultRegistry()
			if registry.Get(format) == nil {
				return fmt.Errorf("unknown import format %q (available: %v)", format, registry.Formats())
			}
			if len(args) == 1 {
				res, err := importFile(cmd, a, opts, registry, format, args[0])
				if err != nil {
					return err
				}
				return report(cmd.OutOrStdout(), res)
			}
			return runImportScan(cmd, a, opts, registry, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "bank CSV format")

	return cmd
}

func importFile(cmd *cobra.Command, a *app, opts *rootOptions, registry *importer.Registry, format, path string) (assistant.Result, error) {
	txns, err := registry.ParseFile(format, path)
	if err != nil {
		return assistant.Result{}, err
	}
	return a.svc.Import(cmd.Context(), a.session(opts), importer.Drafts(txns)), nil
}

func runImportScan(cmd *cobra.Command, a *app, opts *rootOptions, registry *importer.Registry, format string) error {
	out := cmd.OutOrStdout()
	files, err := importer.Scan(a.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "📭 No CSV files in import/.")
		return nil
	}

	failed := false
	for _, f := range files {
		res, err := importFile(cmd, a, opts, registry, format, f.Path)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		printResult(out, f.Name, res)
		switch res.Status {
		case assistant.StatusFailure:
			failed = true
			continue
		case assistant.StatusNoData:
			continue
		}
		if err := importer.MarkProcessed(a.root, f.Name); err != nil {
			return err
		}
		a.logger.WithComponent(log.ComponentImport).Info("file processed", log.FieldPath, f.Name)
	}
	if failed {
		return ErrFailed
	}
	return nil
}

func printResult(w io.Writer, name string, res assistant.Result) {
	fmt.Fprintf(w, "%s: %s\n", name, res.String())
}
