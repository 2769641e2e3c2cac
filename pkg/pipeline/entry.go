package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/matrixci/matrixci/internal/shell"
	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

// EntryResult is the terminal outcome of one matrix entry.
type EntryResult struct {
	Entry  model.EntryInfo
	State  State
	Stages []*StageResult
	// FailedStage names the stage whose failure aborted the entry.
	FailedStage string
	// ReportErr records a reporting failure that happened after all prior
	// stages succeeded. It does not invalidate the entry.
	ReportErr error
	// Err is the fatal error of the entry, nil when it reached DONE.
	Err      error
	Duration time.Duration
}

// StageResult is the outcome of one stage for one entry.
type StageResult struct {
	Stage    *model.StageInfo
	Commands []*model.CommandResult
	Err      error
	Duration time.Duration
}

// runEntry drives one matrix entry through the stage sequence, fail-fast.
func (p *Pipeline) runEntry(ctx context.Context, entry model.EntryInfo) *EntryResult {
	log := p.log.With().Str("entry", entry.String()).Logger()
	start := time.Now()

	res := &EntryResult{
		Entry: entry,
		State: StatePending,
	}

	env := shell.MergeEnv(os.Environ(), p.def.Env, map[string]string{entry.Variable: entry.Value})

	for i := range p.def.Stages {
		stage := &p.def.Stages[i]
		info := p.stageInfos[i]

		next, err := transition(res.State, runningState(stage.Kind))
		if err != nil {
			res.failEntry(stage.Name, err)

			break
		}
		res.State = next

		log.Info().Str("stage", stage.Name).Msg("stage started")
		stageRes := p.runStage(ctx, log, entry, info, stage, env)
		res.Stages = append(res.Stages, stageRes)

		for _, opt := range p.opts {
			if hookErr := opt.AfterStage(&entry, info, stageRes.Duration, stageRes.Err); hookErr != nil && stageRes.Err == nil {
				stageRes.Err = errors.Wrap(hookErr, "unable to run after-stage hook")
			}
		}

		if stageRes.Err == nil {
			log.Info().Str("stage", stage.Name).Dur("elapsed", stageRes.Duration).Msg("stage succeeded")

			continue
		}

		if stage.Kind == model.ReportStage {
			// Reporting runs after the tests already passed; its failure
			// is recorded but leaves the entry valid.
			res.ReportErr = stageRes.Err
			log.Warn().Err(stageRes.Err).Str("stage", stage.Name).Msg("report stage failed, test results remain valid")

			continue
		}

		log.Error().Err(stageRes.Err).Str("stage", stage.Name).Msg("stage failed")
		res.failEntry(stage.Name, errors.Wrapf(stageRes.Err, "stage %s", stage.Name))

		break
	}

	if !res.State.Terminal() {
		res.State, _ = transition(res.State, StateDone)
	}
	res.Duration = time.Since(start)

	for _, opt := range p.opts {
		if hookErr := opt.AfterEntry(&entry, res.Duration, res.Err); hookErr != nil && res.Err == nil {
			res.failEntry("", errors.Wrap(hookErr, "unable to run after-entry hook"))
		}
	}

	return res
}

func (r *EntryResult) failEntry(stageName string, err error) {
	r.FailedStage = stageName
	r.Err = err
	r.State, _ = transition(r.State, StateFailed)
}

// runStage executes the stage commands in order. A fatal command failure
// aborts the stage; informational commands only record their failure.
func (p *Pipeline) runStage(ctx context.Context, log zerolog.Logger, entry model.EntryInfo, info *model.StageInfo, stage *Stage, env []string) *StageResult {
	start := time.Now()
	res := &StageResult{Stage: info}

	for _, cmd := range stage.Commands {
		if err := ctx.Err(); err != nil {
			res.Err = errors.Wrap(err, "entry interrupted")

			break
		}

		out, err := p.runner.Run(ctx, shell.Command{Run: cmd.Run, Env: env})
		if err != nil {
			res.Err = errors.Wrapf(err, "command %q", cmd.Run)

			break
		}

		cmdRes := &model.CommandResult{
			Run:      cmd.Run,
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
			ExitCode: out.ExitCode,
			Duration: out.Duration,
		}
		if out.ExitCode != 0 && cmd.ContinueOnError {
			cmdRes.IgnoredFailure = true
			log.Warn().Str("command", cmd.Run).Int("exit_code", out.ExitCode).Msg("informational command failed")
		}
		res.Commands = append(res.Commands, cmdRes)

		for _, opt := range p.opts {
			if hookErr := opt.OnCommand(&entry, info, cmdRes); hookErr != nil {
				res.Err = errors.Wrap(hookErr, "unable to run command hook")

				break
			}
		}
		if res.Err != nil {
			break
		}

		if out.ExitCode != 0 && !cmd.ContinueOnError {
			res.Err = errors.Errorf("command %q exited with code %d", cmd.Run, out.ExitCode)

			break
		}
	}

	res.Duration = time.Since(start)

	return res
}
