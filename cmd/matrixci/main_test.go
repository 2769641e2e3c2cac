package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := execute([]string{"validate", "testdata/mapentity.yml"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "testdata/mapentity.yml: 4 DJANGO_VERSION values, 5 stages")
}

func TestValidateCommandMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := execute([]string{"validate", "testdata/missing.yml"}, &stdout, &stderr)
	assert.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := execute([]string{"run", "testdata/echo.yml"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "DJANGO_VERSION=1.8.18")
	assert.Contains(t, stdout.String(), "DJANGO_VERSION=1.11.2")
	assert.Contains(t, stdout.String(), "2 entries, 0 failed")
}

func TestRunCommandEntryFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := execute([]string{"run", "testdata/failing.yml"}, &stdout, &stderr)
	require.Error(t, err)
	assert.ErrorIs(t, err, errEntriesFailed)
	assert.Contains(t, stdout.String(), "stage lint failed")
	assert.Contains(t, stdout.String(), "1 entries, 1 failed")
}

func TestRunCommandSingleEntry(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := execute([]string{"run", "testdata/echo.yml", "--entry", "1.11.2"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.NotContains(t, stdout.String(), "DJANGO_VERSION=1.8.18")
	assert.Contains(t, stdout.String(), "1 entries, 0 failed")
}

func TestDrawCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pipeline.gv")

	var stdout, stderr bytes.Buffer
	err := execute([]string{"draw", "testdata/mapentity.yml", "-o", out}, &stdout, &stderr)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"start" -> "setup"`)
	assert.Contains(t, string(content), `"report" -> "end"`)
}
