package model

import "time"

// StageKind identifies one of the canonical pipeline stages. Kinds may be
// omitted from a pipeline definition but must always appear in canonical
// order: setup, install, lint, test, report.
type StageKind string

const (
	SetupStage   StageKind = "setup"
	InstallStage StageKind = "install"
	LintStage    StageKind = "lint"
	TestStage    StageKind = "test"
	ReportStage  StageKind = "report"
)

var kindOrder = map[StageKind]int{
	SetupStage:   1,
	InstallStage: 2,
	LintStage:    3,
	TestStage:    4,
	ReportStage:  5,
}

// Order returns the canonical position of the kind, starting at 1.
// It returns 0 for unknown kinds.
func (k StageKind) Order() int {
	return kindOrder[k]
}

// Valid reports whether the kind is one of the canonical stage kinds.
func (k StageKind) Valid() bool {
	return kindOrder[k] != 0
}

// StageInfo describes a stage of the pipeline.
type StageInfo struct {
	Kind     StageKind
	Name     string
	Commands int
}

// EntryInfo describes one build-matrix entry: a single binding of the matrix
// variable. Index is the position of the value in the matrix declaration.
type EntryInfo struct {
	Index    int
	Variable string
	Value    string
}

// String returns the entry label used in logs and graph vertices.
func (e EntryInfo) String() string {
	return e.Variable + "=" + e.Value
}

// CommandResult is the outcome of a single command invocation.
type CommandResult struct {
	Run      string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
	// IgnoredFailure is set when the command failed but was declared
	// informational, so the failure did not abort the stage.
	IgnoredFailure bool
}

var (
	// StartStage and EndStage are the synthetic boundary vertices of the
	// stage graph.
	StartStage = &StageInfo{Name: "start"}
	EndStage   = &StageInfo{Name: "end"}
)
