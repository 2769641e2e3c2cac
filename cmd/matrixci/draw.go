package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matrixci/matrixci/internal/config"
	"github.com/matrixci/matrixci/pkg/pipeline"
	"github.com/matrixci/matrixci/pkg/pipeline/drawer"
)

func newDrawCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "draw [pipeline file]",
		Short: "Write the stage graph of a pipeline as a DOT file",
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

			opt := drawer.PipelineDrawer(drawer.NewSVGDrawer(output), nil)
			if _, err := pipeline.New(def, pipeline.WithObservers(opt)); err != nil {
				return err
			}
			// The graph is complete once the pipeline is assembled; no run
			// is needed to draw it.
			if err := opt.Finish(); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "pipeline.gv", "output DOT file")

	return cmd
}
