package drawer

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/matrixci/matrixci/pkg/pipeline/measure"
	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time

	mu        sync.Mutex
	lastStage string
	failed    map[string]struct{}
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStage(model.StartStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}
	err = pd.AddStage(model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parent, stage *model.StageInfo) error {
	err := pd.AddStage(stage.Name)
	if err != nil {
		return err
	}
	err = pd.AddLink(parent.Name, stage.Name)
	if err != nil {
		return err
	}

	pd.mu.Lock()
	pd.lastStage = stage.Name
	pd.mu.Unlock()

	return nil
}

func (pd *pipelineDrawer) OnCommand(entry *model.EntryInfo, stage *model.StageInfo, result *model.CommandResult) error {
	return nil
}

func (pd *pipelineDrawer) AfterStage(entry *model.EntryInfo, stage *model.StageInfo, elapsed time.Duration, stageErr error) error {
	if stageErr == nil {
		return nil
	}

	// A stage failing for any entry is drawn failed, once.
	pd.mu.Lock()
	defer pd.mu.Unlock()
	if _, ok := pd.failed[stage.Name]; ok {
		return nil
	}
	pd.failed[stage.Name] = struct{}{}

	return pd.SetStatus(stage.Name, StatusFailed)
}

func (pd *pipelineDrawer) AfterEntry(entry *model.EntryInfo, elapsed time.Duration, entryErr error) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	pd.mu.Lock()
	lastStage := pd.lastStage
	pd.mu.Unlock()

	if lastStage != "" {
		err := pd.AddLink(lastStage, model.EndStage.Name)
		if err != nil {
			return errors.Wrap(err, "unable to link last stage to end")
		}
	}

	if pd.m != nil {
		err := pd.SetLabel(model.EndStage.Name, time.Since(pd.startTime).String())
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer adapts a Drawer to the pipeline option contract. The
// measure may be nil when durations are not collected.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{
		Drawer:    drawer,
		m:         measure,
		startTime: time.Now(),
		failed:    make(map[string]struct{}),
	}
}
