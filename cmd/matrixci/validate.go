package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matrixci/matrixci/internal/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [pipeline file]",
		Short: "Check a pipeline definition without running it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}

			path := settings.PipelineFile
			if len(args) == 1 {
				path = args[0]
			}

			def, err := config.Load(path)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d %s values, %d stages\n",
				path, len(def.Matrix.Values), def.Matrix.Variable, len(def.Stages))

			return err
		},
	}
}
