package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/matrixci/matrixci/internal/shell"
	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

// Option configures a Pipeline.
type Option func(p *Pipeline)

// WithObservers attaches observers such as the drawer or the measure.
func WithObservers(opts ...model.PipelineOption) Option {
	return func(p *Pipeline) {
		p.opts = append(p.opts, opts...)
	}
}

// WithRunner replaces the command runner. Tests use this to substitute a
// recording fake for the shell.
func WithRunner(runner shell.Runner) Option {
	return func(p *Pipeline) {
		p.runner = runner
	}
}

// WithLogger sets the logger used for stage progress.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithWorkerLimit caps how many matrix entries run concurrently.
// Zero keeps the default policy.
func WithWorkerLimit(workers int) Option {
	return func(p *Pipeline) {
		p.workers = workers
	}
}

// WithOnly restricts the run to the given matrix values.
func WithOnly(values ...string) Option {
	return func(p *Pipeline) {
		p.only = append(p.only, values...)
	}
}
