package measure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

func TestMetricAverages(t *testing.T) {
	t.Parallel()
	m := NewDefaultMeasure()
	mt := m.AddMetric("test")

	// One stage execution per matrix entry.
	mt.AddStageDuration(2 * time.Second)
	mt.AddStageDuration(4 * time.Second)

	mt.AddCommandDuration("python manage.py test", time.Second)
	mt.AddCommandDuration("python manage.py test", 3*time.Second)
	mt.AddCommandDuration("coveralls", 500*time.Millisecond)

	assert.Equal(t, int64(2), mt.Runs())
	assert.Equal(t, 3*time.Second, mt.AVGStageDuration())

	avgs := mt.AVGCommandDuration()
	require.Contains(t, avgs, "python manage.py test")
	require.Contains(t, avgs, "coveralls")
	assert.Equal(t, 2*time.Second, avgs["python manage.py test"].Elapsed)
	assert.Equal(t, 500*time.Millisecond, avgs["coveralls"].Elapsed)
}

func TestMetricEmpty(t *testing.T) {
	t.Parallel()
	m := NewDefaultMeasure()
	mt := m.AddMetric("lint")

	assert.Equal(t, int64(0), mt.Runs())
	assert.Equal(t, time.Duration(0), mt.AVGStageDuration())
	assert.Empty(t, mt.AVGCommandDuration())
}

func TestMeasureTotalDuration(t *testing.T) {
	t.Parallel()
	m := NewDefaultMeasure()
	m.SetTotalDuration(time.Minute)
	assert.Equal(t, time.Minute, m.GetTotalDuration())
}

func TestMeasureGetUnknownMetric(t *testing.T) {
	t.Parallel()
	m := NewDefaultMeasure()
	assert.Nil(t, m.GetMetric("missing"))
}

func TestPipelineMeasureOption(t *testing.T) {
	t.Parallel()
	m := NewDefaultMeasure()
	opt := PipelineMeasure(m)
	require.NoError(t, opt.New())

	stage := &model.StageInfo{Kind: model.TestStage, Name: "test", Commands: 1}
	entry := &model.EntryInfo{Variable: "DJANGO_VERSION", Value: "1.8.18"}

	require.NoError(t, opt.PrepareStage(model.StartStage, stage))
	require.NoError(t, opt.OnCommand(entry, stage, &model.CommandResult{
		Run:      "python manage.py test",
		Duration: time.Second,
	}))
	require.NoError(t, opt.AfterStage(entry, stage, 2*time.Second, nil))
	require.NoError(t, opt.Finish())

	mt := m.GetMetric("test")
	require.NotNil(t, mt)
	assert.Equal(t, int64(1), mt.Runs())
	assert.Equal(t, 2*time.Second, mt.AVGStageDuration())
	assert.Contains(t, mt.AllCommands(), "python manage.py test")
	assert.NotZero(t, m.GetTotalDuration())
}

// Hooks for stages that never registered a metric must not panic; an entry
// can fail before a later stage is ever prepared.
func TestPipelineMeasureUnknownStage(t *testing.T) {
	t.Parallel()
	opt := PipelineMeasure(NewDefaultMeasure())
	stage := &model.StageInfo{Kind: model.ReportStage, Name: "report"}
	entry := &model.EntryInfo{Variable: "DJANGO_VERSION", Value: "1.8.18"}

	assert.NoError(t, opt.OnCommand(entry, stage, &model.CommandResult{Run: "coveralls"}))
	assert.NoError(t, opt.AfterStage(entry, stage, time.Second, nil))
}
