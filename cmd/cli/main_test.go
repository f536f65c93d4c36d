package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmelnyk/planweave/internal/cli"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_RendersSchedule(t *testing.T) {
	path := writePlan(t, `
activity "Excavate" {
  duration = 3
  start    = "2026-03-01 09:00"
}

activity "Foundation" {
  duration     = 2
  predecessors = ["Excavate"]
}
`)

	var out, errOut bytes.Buffer
	err := run(&out, &errOut, []string{"-plan", path})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Excavate")
	assert.Contains(t, out.String(), "Project duration: 5 days")
	assert.Contains(t, out.String(), "Critical path:")
}

func TestRun_CyclicPlanFails(t *testing.T) {
	path := writePlan(t, `
activity "A" {
  predecessors = ["B"]
}
activity "B" {
  predecessors = ["A"]
}
`)

	var out, errOut bytes.Buffer
	err := run(&out, &errOut, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(&out, &errOut, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_InvalidFlagReturnsExitError(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(&out, &errOut, []string{"-log-level", "loud", "whatever.hcl"})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
