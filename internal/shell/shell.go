// Package shell runs pipeline commands through the system shell and captures
// their outcome.
package shell

import (
	"bytes"
	"context"
	"os/exec"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Command is a single shell invocation.
type Command struct {
	// Run is the command line, interpreted by the shell.
	Run string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is the complete environment of the process, as "KEY=VALUE" pairs.
	Env []string
}

// Result is the captured outcome of a command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes commands. The local implementation spawns processes; tests
// substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Local runs commands with `<shell> -c`.
type Local struct {
	Shell string
}

// New returns a Local runner using sh.
func New() *Local {
	return &Local{Shell: "sh"}
}

// Run executes the command and captures stdout, stderr and the exit code.
// A non-zero exit is not an error here: the caller decides whether the
// failure is fatal. An error is returned only when the process could not be
// started or the context was cancelled.
func (l *Local) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Run == "" {
		return nil, errors.New("command must not be empty")
	}

	execCmd := exec.CommandContext(ctx, l.Shell, "-c", cmd.Run)
	execCmd.Dir = cmd.Dir
	execCmd.Env = cmd.Env

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	start := time.Now()
	err := execCmd.Run()
	elapsed := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errors.Wrapf(ctxErr, "command %q interrupted", cmd.Run)
	}

	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: elapsed,
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, errors.Wrapf(err, "unable to run command %q", cmd.Run)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	return res, nil
}

// MergeEnv layers overlay maps on top of a base "KEY=VALUE" environment.
// Later overlays win over earlier ones, and every overlay wins over base.
// Overlay keys are applied in sorted order so the result is deterministic.
func MergeEnv(base []string, overlays ...map[string]string) []string {
	merged := make([]string, len(base))
	copy(merged, base)

	for _, overlay := range overlays {
		keys := make([]string, 0, len(overlay))
		for k := range overlay {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			merged = setEnv(merged, k, overlay[k])
		}
	}

	return merged
}

func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, pair := range env {
		if len(pair) >= len(prefix) && pair[:len(prefix)] == prefix {
			env[i] = prefix + value
			return env
		}
	}

	return append(env, prefix+value)
}
