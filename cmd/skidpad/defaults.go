package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/skidpad/tuning"
)

func newDefaultsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in parameter set as a complete parameter file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := tuning.ParseFormat(format)
			if err != nil {
				return err
			}
			return tuning.Encode(cmd.OutOrStdout(), tuning.Default(), f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "toml or yaml")
	return cmd
}
