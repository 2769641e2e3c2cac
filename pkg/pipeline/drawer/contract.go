// Package drawer renders the pipeline stage graph as an SVG-ready DOT file.
package drawer

import (
	"github.com/matrixci/matrixci/pkg/pipeline/measure"
)

// Status is the rendered outcome of a stage.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage vertex to the graph.
	AddStage(stageName string) error
	// AddLink adds a link between a stage and its successor.
	AddLink(parentStageName, childStageName string) error
	// SetLabel annotates a stage with a free-form label.
	SetLabel(stageName, label string) error
	// SetStatus colours a stage according to its outcome.
	SetStatus(stageName string, status Status) error
	// AddMeasure annotates the graph with collected durations.
	AddMeasure(measure measure.Measure) error
	// Draw creates a file with the pipeline graph.
	Draw() error
}
