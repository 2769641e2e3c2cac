// Package config loads pipeline definitions from YAML files and runner
// settings from the environment.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/matrixci/matrixci/pkg/pipeline"
	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

type pipelineFile struct {
	Name   string            `yaml:"name"`
	Env    map[string]string `yaml:"env"`
	Matrix matrixSpec        `yaml:"matrix"`
	Stages []stageSpec       `yaml:"stages"`
}

type matrixSpec struct {
	Variable string   `yaml:"variable"`
	Values   []string `yaml:"values"`
}

type stageSpec struct {
	Kind     string        `yaml:"kind"`
	Name     string        `yaml:"name"`
	Commands []commandSpec `yaml:"commands"`
}

// commandSpec accepts either a bare command string or a mapping with
// run/continue_on_error keys.
type commandSpec struct {
	Run             string `yaml:"run"`
	ContinueOnError bool   `yaml:"continue_on_error"`
}

func (c *commandSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Run)
	}

	type plain commandSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*c = commandSpec(p)

	return nil
}

// Load reads and parses a pipeline definition file.
func Load(path string) (*pipeline.Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read pipeline file %s", path)
	}

	def, err := Parse(content)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse pipeline file %s", path)
	}

	return def, nil
}

// Parse decodes a YAML pipeline definition and validates it. Stages without
// a name default to their kind.
func Parse(content []byte) (*pipeline.Definition, error) {
	var file pipelineFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, errors.Wrap(err, "unable to decode pipeline definition")
	}

	def := &pipeline.Definition{
		Name: file.Name,
		Env:  file.Env,
		Matrix: pipeline.Matrix{
			Variable: file.Matrix.Variable,
			Values:   file.Matrix.Values,
		},
		Stages: make([]pipeline.Stage, len(file.Stages)),
	}

	for i, stage := range file.Stages {
		name := stage.Name
		if name == "" {
			name = stage.Kind
		}

		commands := make([]pipeline.Command, len(stage.Commands))
		for j, cmd := range stage.Commands {
			commands[j] = pipeline.Command{
				Run:             cmd.Run,
				ContinueOnError: cmd.ContinueOnError,
			}
		}

		def.Stages[i] = pipeline.Stage{
			Kind:     model.StageKind(stage.Kind),
			Name:     name,
			Commands: commands,
		}
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return def, nil
}
