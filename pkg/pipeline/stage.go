package pipeline

import (
	"github.com/pkg/errors"

	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

// Command is one shell command of a stage.
type Command struct {
	Run string
	// ContinueOnError marks informational commands whose failure is
	// recorded but never aborts the stage.
	ContinueOnError bool
}

// Stage is an ordered group of commands with a canonical kind.
type Stage struct {
	Kind     model.StageKind
	Name     string
	Commands []Command
}

func (s *Stage) info() *model.StageInfo {
	return &model.StageInfo{
		Kind:     s.Kind,
		Name:     s.Name,
		Commands: len(s.Commands),
	}
}

// Matrix declares the build matrix: one entry per value of a single
// environment variable.
type Matrix struct {
	Variable string
	Values   []string
}

// Definition is a complete pipeline declaration.
type Definition struct {
	Name   string
	Env    map[string]string
	Matrix Matrix
	Stages []Stage
}

// Validate checks the definition invariants: a non-empty matrix without
// duplicate values and stages with commands, appearing in canonical kind
// order.
func (d *Definition) Validate() error {
	if d.Matrix.Variable == "" {
		return ErrNoMatrixVariable
	}
	if len(d.Matrix.Values) == 0 {
		return ErrNoMatrixValues
	}

	seen := make(map[string]struct{}, len(d.Matrix.Values))
	for _, value := range d.Matrix.Values {
		if _, ok := seen[value]; ok {
			return errors.Wrapf(ErrDuplicateMatrixValue, "value %q", value)
		}
		seen[value] = struct{}{}
	}

	if len(d.Stages) == 0 {
		return ErrNoStages
	}

	prevOrder := 0
	for _, stage := range d.Stages {
		if !stage.Kind.Valid() {
			return errors.Wrapf(ErrUnknownStageKind, "stage %q kind %q", stage.Name, stage.Kind)
		}
		if stage.Kind.Order() <= prevOrder {
			return errors.Wrapf(ErrStageOrder, "stage %q kind %q", stage.Name, stage.Kind)
		}
		prevOrder = stage.Kind.Order()

		if len(stage.Commands) == 0 {
			return errors.Wrapf(ErrNoCommands, "stage %q", stage.Name)
		}
		for _, cmd := range stage.Commands {
			if cmd.Run == "" {
				return errors.Wrapf(ErrNoCommands, "stage %q has an empty command", stage.Name)
			}
		}
	}

	return nil
}

// entries builds one EntryInfo per matrix value, in declaration order.
func (d *Definition) entries() []model.EntryInfo {
	infos := make([]model.EntryInfo, len(d.Matrix.Values))
	for i, value := range d.Matrix.Values {
		infos[i] = model.EntryInfo{
			Index:    i,
			Variable: d.Matrix.Variable,
			Value:    value,
		}
	}

	return infos
}
