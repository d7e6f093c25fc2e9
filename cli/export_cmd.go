package cli

import (
	"github.com/spf13/cobra"

	"github.com/naevtamarkus/homeassistant-statistics-cli/models"
	"github.com/naevtamarkus/homeassistant-statistics-cli/processor"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export ENTITY...",
		Short: "Export CSV rows with all fields, entity, and human date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter models.ExportFilter
			var err error
			if filter.After, err = dateFlagValue(cmd, "after"); err != nil {
				return err
			}
			if filter.Before, err = dateFlagValue(cmd, "before"); err != nil {
				return err
			}
			if filter.Above, err = floatFlagValue(cmd, "above"); err != nil {
				return err
			}
			if filter.Below, err = floatFlagValue(cmd, "below"); err != nil {
				return err
			}

			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			return processor.ExportEntities(a.repo, cmd.OutOrStdout(), args, filter, a.log)
		},
	}

	cmd.Flags().Float64("above", 0, "Only include rows where any of mean/min/max is above this threshold")
	cmd.Flags().Float64("below", 0, "Only include rows where any of mean/min/max is below this threshold")
	cmd.Flags().String("after", "", "Only include data after this date (YYYY-MM-DD)")
	cmd.Flags().String("before", "", "Only include data before this date (YYYY-MM-DD)")

	return cmd
}
