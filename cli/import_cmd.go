package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/processor"
)

func newImportCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import CSV_FILE",
		Short: "Import CSV, generate or execute SQL for changes only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			report, err := processor.RunImport(a.repo, file, dryRun)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Print the SQL that would be executed without modifying the database")

	return cmd
}

// printReport writes the run summary, every invalid row with its reason, and
// in dry-run mode the literal statements in planning order.
func printReport(out io.Writer, report models.Report) {
	if report.DryRun {
		fmt.Fprintln(out, "=== DRY RUN MODE: SQL commands that would be executed ===")
		fmt.Fprintln(out, strings.Repeat("=", 75))
	}

	fmt.Fprintf(out, "Operations summary: %d inserts, %d updates, %d deletes, %d skips\n",
		report.Inserts, report.Updates, report.Deletes, report.Skipped)

	if report.Conflicts > 0 {
		fmt.Fprintf(out, "Duplicates overridden (last row wins): %d\n", report.Conflicts)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(out, "Invalid rows (%d, excluded from the run):\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Fprintf(out, "  line %d: %s (%s): %s\n", e.Line, e.Kind, e.Field, e.Message)
		}
	}

	if report.DryRun {
		fmt.Fprintln(out, "SQL to execute:")
		for _, stmt := range report.Statements {
			fmt.Fprintln(out, stmt)
		}
		fmt.Fprintln(out, "Dry run complete, no changes applied.")
		return
	}

	fmt.Fprintf(out, "Import done: %d inserts, %d updates, %d deletes, %d skips\n",
		report.Inserts, report.Updates, report.Deletes, report.Skipped)
}
