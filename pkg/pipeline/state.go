package pipeline

import (
	"github.com/pkg/errors"

	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

// State is the execution state of a matrix entry.
type State string

const (
	StatePending    State = "PENDING"
	StateSettingUp  State = "SETTING_UP"
	StateInstalling State = "INSTALLING"
	StateLinting    State = "LINTING"
	StateTesting    State = "TESTING"
	StateReporting  State = "REPORTING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

// stateOrder positions the non-failed states along the stage sequence.
// FAILED is deliberately absent: it is reachable from any non-terminal state.
var stateOrder = map[State]int{
	StatePending:    0,
	StateSettingUp:  1,
	StateInstalling: 2,
	StateLinting:    3,
	StateTesting:    4,
	StateReporting:  5,
	StateDone:       6,
}

var kindState = map[model.StageKind]State{
	model.SetupStage:   StateSettingUp,
	model.InstallStage: StateInstalling,
	model.LintStage:    StateLinting,
	model.TestStage:    StateTesting,
	model.ReportStage:  StateReporting,
}

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// runningState returns the state an entry is in while a stage of the given
// kind executes.
func runningState(kind model.StageKind) State {
	return kindState[kind]
}

// transition validates a state change. Stages may be omitted from a
// definition, so any forward move along the sequence is legal; FAILED is
// legal from every non-terminal state.
func transition(from, to State) (State, error) {
	if from.Terminal() {
		return from, errors.Errorf("invalid transition %s -> %s: %s is terminal", from, to, from)
	}
	if to == StateFailed {
		return to, nil
	}

	toOrder, ok := stateOrder[to]
	if !ok {
		return from, errors.Errorf("invalid transition %s -> %s: unknown state %s", from, to, to)
	}
	if toOrder <= stateOrder[from] {
		return from, errors.Errorf("invalid transition %s -> %s: stages cannot run backwards", from, to)
	}

	return to, nil
}
