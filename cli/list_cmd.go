package cli

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
	"github.com/naevtamarkus/homeassistant-statistics-cli/processor"
	"github.com/naevtamarkus/homeassistant-statistics-cli/schema"
	"github.com/naevtamarkus/homeassistant-statistics-cli/utils"
)

func newListCmd(a *app) *cobra.Command {
	var (
		sortBy  string
		reverse bool
		csvMode bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities with count, first/last seen, KB, unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			after, err := dateFlagValue(cmd, "after")
			if err != nil {
				return err
			}
			before, err := dateFlagValue(cmd, "before")
			if err != nil {
				return err
			}

			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			for _, table := range append(schema.StatisticsTables(), config.GetMetaTableName()) {
				ok, err := a.repo.HasTable(table)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Missing required statistics tables.")
					return nil
				}
			}

			summaries, err := processor.ListEntities(a.repo, processor.ListOptions{
				Sort:    sortBy,
				Reverse: reverse,
				After:   after,
				Before:  before,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if csvMode {
				w := csv.NewWriter(out)
				if err := w.Write([]string{"Entity", "Count", "First", "Last", "~ KB", "Unit"}); err != nil {
					return err
				}
				for _, s := range summaries {
					record := []string{
						s.Entity,
						strconv.FormatInt(s.Count, 10),
						utils.FormatTimestamp(s.First),
						utils.FormatTimestamp(s.Last),
						strconv.FormatFloat(s.KB, 'f', 1, 64),
						s.Unit,
					}
					if err := w.Write(record); err != nil {
						return err
					}
				}
				w.Flush()
				return w.Error()
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "Entity\tCount\tFirst\tLast\t~ KB\tUnit")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.1f\t%s\n",
					s.Entity, s.Count, utils.FormatTimestamp(s.First), utils.FormatTimestamp(s.Last), s.KB, s.Unit)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort results by this column (count, first, last, kb)")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "Reverse sort order")
	cmd.Flags().BoolVar(&csvMode, "csv", false, "Output in CSV format")
	cmd.Flags().String("after", "", "Only consider data after this date (YYYY-MM-DD)")
	cmd.Flags().String("before", "", "Only consider data before this date (YYYY-MM-DD)")

	return cmd
}
