// Package measure collects stage and command durations across matrix entries.
package measure

import "time"

// Measure aggregates one metric per stage.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
	SetTotalDuration(elapsed time.Duration)
	GetTotalDuration() time.Duration
}

// Metric accumulates durations for a single stage, averaged over the matrix
// entries that executed it.
type Metric interface {
	AddStageDuration(elapsed time.Duration)
	AddCommandDuration(run string, elapsed time.Duration)
	Runs() int64
	AVGStageDuration() time.Duration
	AVGCommandDuration() map[string]*CommandInfo
	AllCommands() map[string]*CommandInfo
}

// CommandInfo tracks one command line within a stage.
type CommandInfo struct {
	Elapsed time.Duration
	total   int64
}
