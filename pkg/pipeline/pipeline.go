package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/matrixci/matrixci/internal/sched"
	"github.com/matrixci/matrixci/internal/shell"
	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

// Pipeline executes a definition across its build matrix.
type Pipeline struct {
	def        *Definition
	id         string
	stageInfos []*model.StageInfo
	opts       []model.PipelineOption
	runner     shell.Runner
	log        zerolog.Logger
	workers    int
	only       []string
	errcList   *errorChans
	startTime  time.Time
}

// RunResult aggregates the outcome of one pipeline run.
type RunResult struct {
	ID       string
	Name     string
	Entries  []*EntryResult
	Duration time.Duration
}

// OK reports whether every entry finished successfully.
func (r *RunResult) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the entries that ended in the FAILED state.
func (r *RunResult) Failed() []*EntryResult {
	var failed []*EntryResult
	for _, entry := range r.Entries {
		if entry.State == StateFailed {
			failed = append(failed, entry)
		}
	}

	return failed
}

// New creates a pipeline from a validated definition.
func New(def *Definition, opts ...Option) (*Pipeline, error) {
	if def == nil {
		return nil, ErrDefinitionMustBeSet
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	pipe := &Pipeline{
		def:       def,
		id:        uuid.NewString(),
		runner:    shell.New(),
		log:       zerolog.Nop(),
		errcList:  &errorChans{},
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(pipe)
	}

	if err := pipe.checkOnly(); err != nil {
		return nil, err
	}

	pipe.stageInfos = make([]*model.StageInfo, len(def.Stages))
	for i := range def.Stages {
		pipe.stageInfos[i] = def.Stages[i].info()
	}

	for _, opt := range pipe.opts {
		if err := opt.New(); err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}
	if err := pipe.prepareStages(); err != nil {
		return nil, err
	}

	return pipe, nil
}

// ID returns the unique identifier of this run.
func (p *Pipeline) ID() string {
	return p.id
}

// prepareStages announces the stage sequence to the observers, linking every
// stage to its predecessor.
func (p *Pipeline) prepareStages() error {
	parent := model.StartStage
	for _, info := range p.stageInfos {
		for _, opt := range p.opts {
			if err := opt.PrepareStage(parent, info); err != nil {
				return errors.Wrapf(err, "unable to prepare stage %s", info.Name)
			}
		}
		parent = info
	}

	return nil
}

func (p *Pipeline) checkOnly() error {
	declared := make(map[string]struct{}, len(p.def.Matrix.Values))
	for _, value := range p.def.Matrix.Values {
		declared[value] = struct{}{}
	}
	for _, value := range p.only {
		if _, ok := declared[value]; !ok {
			return errors.Wrapf(ErrUnknownMatrixValue, "value %q", value)
		}
	}

	return nil
}

func (p *Pipeline) selectedEntries() []model.EntryInfo {
	all := p.def.entries()
	if len(p.only) == 0 {
		return all
	}

	keep := make(map[string]struct{}, len(p.only))
	for _, value := range p.only {
		keep[value] = struct{}{}
	}

	var selected []model.EntryInfo
	for _, entry := range all {
		if _, ok := keep[entry.Value]; ok {
			selected = append(selected, entry)
		}
	}

	return selected
}

// waitForEntries drains the merged error channels and returns the first
// entry failure.
func waitForEntries(errs ...*errorChan) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}

	return nil
}

// Run executes every selected matrix entry and waits for all of them to reach
// a terminal state. Entries are independent: a failure in one never stops the
// others. The returned RunResult always covers every entry; the error is the
// first entry failure, if any.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	entries := p.selectedEntries()
	results := make([]*EntryResult, len(entries))

	grp := errgroup.Group{}
	grp.SetLimit(sched.WorkerLimit(len(entries), p.workers))

	for i, entry := range entries {
		errC := make(chan error, 1)
		p.errcList.add(newErrorChan(entry.String(), errC))

		i, entry := i, entry
		grp.Go(func() error {
			defer close(errC)
			res := p.runEntry(ctx, entry)
			results[i] = res
			if res.Err != nil {
				errC <- res.Err
			}

			return nil
		})
	}

	// Worker goroutines never return errors; failures travel through the
	// entry error channels.
	_ = grp.Wait()

	runResult := &RunResult{
		ID:       p.id,
		Name:     p.def.Name,
		Entries:  results,
		Duration: time.Since(p.startTime),
	}

	finishErr := p.finishRun()
	if err := waitForEntries(p.errcList.list...); err != nil {
		return runResult, err
	}

	return runResult, finishErr
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		if err := opt.Finish(); err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
