package measure

import (
	"time"

	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) PrepareStage(parent, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnCommand(entry *model.EntryInfo, stage *model.StageInfo, result *model.CommandResult) error {
	mt := pm.GetMetric(stage.Name)
	if mt != nil {
		mt.AddCommandDuration(result.Run, result.Duration)
	}

	return nil
}

func (pm *pipelineMeasure) AfterStage(entry *model.EntryInfo, stage *model.StageInfo, elapsed time.Duration, stageErr error) error {
	mt := pm.GetMetric(stage.Name)
	if mt != nil {
		mt.AddStageDuration(elapsed)
	}

	return nil
}

func (pm *pipelineMeasure) AfterEntry(entry *model.EntryInfo, elapsed time.Duration, entryErr error) error {
	return nil
}

func (pm *pipelineMeasure) Finish() error {
	pm.SetTotalDuration(time.Since(pm.startTime))

	return nil
}

// PipelineMeasure adapts a Measure to the pipeline option contract.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure, time.Now()}
}
