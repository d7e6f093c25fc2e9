package cli

import (
	"github.com/spf13/cobra"

	"github.com/naevtamarkus/homeassistant-statistics-cli/utils"
)

// dateFlagValue parses an optional --after/--before style date flag into a
// timestamp, or nil when the flag was not given.
func dateFlagValue(cmd *cobra.Command, name string) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, err
	}
	ts, err := utils.ParseDateOption(raw)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

//floatFlagValue returns the value of an optional float flag, or nil when not given
func floatFlagValue(cmd *cobra.Command, name string) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
