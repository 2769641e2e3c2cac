package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matrixci/matrixci/internal/shell"
	"github.com/matrixci/matrixci/pkg/pipeline/model"
)

// call records one command spawn together with the matrix value of the entry
// that issued it.
type call struct {
	run   string
	value string
}

// fakeRunner records every command instead of spawning processes. Exit codes
// can be scripted globally or per matrix value.
type fakeRunner struct {
	mu           sync.Mutex
	calls        []call
	exitCodes    map[string]int
	exitCodesFor map[string]map[string]int
	spawnErrs    map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		exitCodes:    make(map[string]int),
		exitCodesFor: make(map[string]map[string]int),
		spawnErrs:    make(map[string]error),
	}
}

func (f *fakeRunner) failWith(run string, code int) {
	f.exitCodes[run] = code
}

func (f *fakeRunner) failFor(value, run string, code int) {
	if f.exitCodesFor[value] == nil {
		f.exitCodesFor[value] = make(map[string]int)
	}
	f.exitCodesFor[value][run] = code
}

func (f *fakeRunner) spawnErr(run string, err error) {
	f.spawnErrs[run] = err
}

func (f *fakeRunner) Run(ctx context.Context, cmd shell.Command) (*shell.Result, error) {
	value := envValue(cmd.Env, "DJANGO_VERSION")

	f.mu.Lock()
	f.calls = append(f.calls, call{run: cmd.Run, value: value})
	spawnErr := f.spawnErrs[cmd.Run]
	code := f.exitCodes[cmd.Run]
	if perValue := f.exitCodesFor[value]; perValue != nil {
		if c, overridden := perValue[cmd.Run]; overridden {
			code = c
		}
	}
	f.mu.Unlock()

	if spawnErr != nil {
		return nil, spawnErr
	}

	return &shell.Result{
		Stdout:   []byte("ok\n"),
		ExitCode: code,
		Duration: time.Millisecond,
	}, nil
}

// runsFor returns the command lines spawned for one matrix value, in order.
func (f *fakeRunner) runsFor(value string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var runs []string
	for _, c := range f.calls {
		if c.value == value {
			runs = append(runs, c.run)
		}
	}

	return runs
}

func envValue(env []string, key string) string {
	prefix := key + "="
	for _, pair := range env {
		if strings.HasPrefix(pair, prefix) {
			return strings.TrimPrefix(pair, prefix)
		}
	}

	return ""
}

var djangoValues = []string{"1.8.18", "1.9.13", "1.10.7", "1.11.2"}

// djangoDefinition builds a full five-stage definition with a four-value
// build matrix.
func djangoDefinition(t *testing.T) *Definition {
	t.Helper()

	return &Definition{
		Name: "mapentity",
		Env: map[string]string{
			"CPLUS_INCLUDE_PATH": "/usr/include/gdal",
			"C_INCLUDE_PATH":     "/usr/include/gdal",
		},
		Matrix: Matrix{
			Variable: "DJANGO_VERSION",
			Values:   djangoValues,
		},
		Stages: []Stage{
			{
				Kind: model.SetupStage,
				Name: "setup",
				Commands: []Command{
					{Run: "sudo apt-get install -y libgdal-dev"},
				},
			},
			{
				Kind: model.InstallStage,
				Name: "install",
				Commands: []Command{
					{Run: "pip install Django==$DJANGO_VERSION"},
					{Run: "pip install -r requirements.txt"},
				},
			},
			{
				Kind: model.LintStage,
				Name: "lint",
				Commands: []Command{
					{Run: "flake8 mapentity"},
					{Run: "pip freeze", ContinueOnError: true},
				},
			},
			{
				Kind: model.TestStage,
				Name: "test",
				Commands: []Command{
					{Run: "python manage.py test"},
					{Run: `coverage run --include="mapentity/*" manage.py test`},
				},
			},
			{
				Kind: model.ReportStage,
				Name: "report",
				Commands: []Command{
					{Run: "coveralls"},
				},
			},
		},
	}
}

func entryByValue(t *testing.T, res *RunResult, value string) *EntryResult {
	t.Helper()

	for _, entry := range res.Entries {
		if entry.Entry.Value == value {
			return entry
		}
	}
	t.Fatalf("no entry for value %s", value)

	return nil
}
