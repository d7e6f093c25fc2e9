package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
	"github.com/naevtamarkus/homeassistant-statistics-cli/processor"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize database tables: rows, cols, records, percent, megabytes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			statuses, err := processor.CollectStatus(a.repo)
			if err != nil {
				return err
			}

			var totalRecords, totalBytes int64
			for _, s := range statuses {
				totalRecords += s.Records
				totalBytes += s.Bytes
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database type: %s, schema %d\n", a.driver, a.schemaVersion)
			fmt.Fprintf(out, "Time: %s UTC\n", time.Now().UTC().Format(config.GetDisplayDateLayout()))
			fmt.Fprintln(out, strings.Repeat("-", 70))

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Table\tRows\tCols\tRecords\t% total\t~ MB")
			for _, s := range statuses {
				pct := 0.0
				if totalRecords > 0 {
					pct = float64(s.Records) / float64(totalRecords) * 100
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f%%\t%.1f\n",
					s.Name, s.Rows, s.Cols, s.Records, pct, float64(s.Bytes)/(1024*1024))
			}
			w.Flush()

			fmt.Fprintln(out, strings.Repeat("-", 70))
			fmt.Fprintf(out, "TOTAL RECORDS: %d\n", totalRecords)
			fmt.Fprintf(out, "TOTAL SIZE: %.2f MB\n", float64(totalBytes)/(1024*1024))
			return nil
		},
	}
}
