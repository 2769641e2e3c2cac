package model

import "time"

// PipelineOption defines the interface for pipeline observers.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	stageOption
	entryOption

	// Finish runs after every matrix entry has reached a terminal state.
	Finish() error
}

// stageOption defines the hooks fired around stages.
type stageOption interface {
	// PrepareStage runs once per stage when the pipeline is assembled.
	// parent is the preceding stage, or StartStage for the first one.
	PrepareStage(parent, stage *StageInfo) error
	// OnCommand runs after every command invocation within a stage.
	OnCommand(entry *EntryInfo, stage *StageInfo, result *CommandResult) error
	// AfterStage runs when a stage finishes for one entry. stageErr is nil
	// when the stage succeeded.
	AfterStage(entry *EntryInfo, stage *StageInfo, elapsed time.Duration, stageErr error) error
}

// entryOption defines the hooks fired around matrix entries.
type entryOption interface {
	// AfterEntry runs when an entry reaches a terminal state. entryErr is
	// nil when the entry finished successfully.
	AfterEntry(entry *EntryInfo, elapsed time.Duration, entryErr error) error
}
