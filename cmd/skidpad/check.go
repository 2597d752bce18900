package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/skidpad/tuning"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate vehicle parameter files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkFiles(afero.NewOsFs(), cmd.OutOrStdout(), args)
		},
	}
}

// checkFiles reports every file and fails if any of them would not load
func checkFiles(fsys afero.Fs, w io.Writer, paths []string) error {
	failed := 0
	for _, path := range paths {
		_, err := tuning.Load(fsys, path)
		if err == nil {
			fmt.Fprintf(w, "ok    %s\n", path)
			continue
		}

		failed++
		fmt.Fprintf(w, "FAIL  %s\n", path)
		var perr *tuning.ConfigParseError
		if errors.As(err, &perr) {
			for _, p := range perr.Problems() {
				fmt.Fprintf(w, "      %v\n", p)
			}
		} else {
			fmt.Fprintf(w, "      %v\n", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d parameter files invalid", failed, len(paths))
	}
	return nil
}
