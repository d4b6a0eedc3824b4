package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskboard/internal/domain"
)

const seedYAML = `tasks:
  - title: Ship
    status: in-progress
    assignees: [Ann]
    start_offset_days: 0
    end_offset_days: 2
    progress: 40
  - title: Plan
    status: backlog
    assignees: [Ann, Raj]
    end_offset_days: 1
    progress: 20
  - title: Done already
    status: completed
    end_offset_days: -3
    progress: 100
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))
	return path
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "inspect")
}

func TestInspect_JSON(t *testing.T) {
	t.Setenv("TASKBOARD_DOTENV", filepath.Join(t.TempDir(), "none.env"))

	out, err := execute(t, "inspect", "--seed", writeSeed(t), "--now", "2026-10-19T09:00:00Z", "--json")
	require.NoError(t, err)

	var report inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 3, report.Dashboard.Stats.Total)
	assert.Equal(t, 53, report.Dashboard.Stats.AverageProgress)
	require.Len(t, report.Dashboard.Upcoming, 2)
	assert.Equal(t, "Plan", report.Dashboard.Upcoming[0].Title)
	assert.Equal(t, "Ship", report.Dashboard.Upcoming[1].Title)

	require.Len(t, report.Board.Columns, 4)
	require.Len(t, report.Board.Column(domain.TaskStatusBacklog), 1)
	assert.Equal(t, "Plan", report.Board.Column(domain.TaskStatusBacklog)[0].Title)

	require.Len(t, report.Assignees, 2)
	assert.Equal(t, "Ann", report.Assignees[0].Assignee)
	assert.Len(t, report.Assignees[0].Tasks, 2)
}

func TestInspect_TextDemo(t *testing.T) {
	t.Setenv("TASKBOARD_DOTENV", filepath.Join(t.TempDir(), "none.env"))

	out, err := execute(t, "inspect", "--now", "2026-10-19T09:00:00Z")
	require.NoError(t, err)

	assert.Contains(t, out, "backlog (2)")
	assert.Contains(t, out, "UI Kit Update")
	assert.Contains(t, out, "average progress  27%")
	assert.Contains(t, out, "upcoming deadlines:")
}

func TestInspect_EmptyBoard(t *testing.T) {
	t.Setenv("TASKBOARD_DOTENV", filepath.Join(t.TempDir(), "none.env"))
	t.Setenv("TASKBOARD_SEED_DEMO", "false")

	out, err := execute(t, "inspect", "--json")
	require.NoError(t, err)

	var report inspectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 0, report.Dashboard.Stats.Total)
	assert.Equal(t, 0, report.Dashboard.Stats.AverageProgress)
}

func TestInspect_Errors(t *testing.T) {
	t.Setenv("TASKBOARD_DOTENV", filepath.Join(t.TempDir(), "none.env"))

	_, err := execute(t, "inspect", "--seed", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = execute(t, "inspect", "--now", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--now")
}
