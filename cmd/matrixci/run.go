package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/matrixci/matrixci/internal/config"
	"github.com/matrixci/matrixci/internal/report"
	"github.com/matrixci/matrixci/pkg/pipeline"
	"github.com/matrixci/matrixci/pkg/pipeline/drawer"
	"github.com/matrixci/matrixci/pkg/pipeline/measure"
	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

func newRunCmd() *cobra.Command {
	var (
		parallel int
		only     []string
		drawPath string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "run [pipeline file]",
		Short: "Run every matrix entry of a pipeline",
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

			if parallel == 0 {
				parallel = settings.MaxParallel
			}

			msr := measure.NewDefaultMeasure()
			observers := []model.PipelineOption{measure.PipelineMeasure(msr)}
			if drawPath != "" {
				observers = append(observers, drawer.PipelineDrawer(drawer.NewSVGDrawer(drawPath), msr))
			}

			pipe, err := pipeline.New(def,
				pipeline.WithLogger(newLogger(cmd.ErrOrStderr(), settings.LogLevel, verbose)),
				pipeline.WithWorkerLimit(parallel),
				pipeline.WithOnly(only...),
				pipeline.WithObservers(observers...),
			)
			if err != nil {
				return err
			}

			res, runErr := pipe.Run(cmd.Context())
			if res != nil {
				if err := report.NewSummary(cmd.OutOrStdout()).Write(res); err != nil {
					return err
				}
				if !res.OK() {
					return errors.Wrapf(errEntriesFailed, "%d of %d entries failed", len(res.Failed()), len(res.Entries))
				}
			}

			return runErr
		},
	}

	cmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "maximum concurrent matrix entries (0 = default policy)")
	cmd.Flags().StringSliceVar(&only, "entry", nil, "run only the given matrix values")
	cmd.Flags().StringVar(&drawPath, "draw", "", "write the executed stage graph to this DOT file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}
