package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Settings are runner-level options read from MATRIXCI_* environment
// variables. Command-line flags override them.
type Settings struct {
	// MaxParallel caps how many matrix entries run concurrently.
	// Zero keeps the default policy.
	MaxParallel int `envconfig:"MAX_PARALLEL"`
	// LogLevel is a zerolog level name.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// PipelineFile is the definition used when no file argument is given.
	PipelineFile string `envconfig:"PIPELINE_FILE" default:".matrixci.yml"`
}

// LoadSettings reads the settings from the environment.
func LoadSettings() (*Settings, error) {
	var settings Settings
	if err := envconfig.Process("matrixci", &settings); err != nil {
		return nil, errors.Wrap(err, "unable to process environment settings")
	}

	return &settings, nil
}
