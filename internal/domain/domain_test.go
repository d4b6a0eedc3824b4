package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskboard/internal/domain"
)

// ---------------------------------------------------------------------------
// TaskStatus
// ---------------------------------------------------------------------------

func TestTaskStatus_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status domain.TaskStatus
		want   bool
	}{
		{domain.TaskStatusBacklog, true},
		{domain.TaskStatusInProgress, true},
		{domain.TaskStatusPaused, true},
		{domain.TaskStatusCompleted, true},
		{"in_progress", false},
		{"done", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("status_"+string(tt.status), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	t.Run("known", func(t *testing.T) {
		t.Parallel()

		for _, s := range domain.AllStatuses() {
			got, err := domain.ParseTaskStatus(string(s))
			require.NoError(t, err)
			assert.Equal(t, s, got)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		_, err := domain.ParseTaskStatus("archived")
		require.ErrorIs(t, err, domain.ErrInvalidStatus)
		assert.Contains(t, err.Error(), "archived")
	})
}

func TestAllStatuses_ColumnOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []domain.TaskStatus{
		domain.TaskStatusBacklog,
		domain.TaskStatusInProgress,
		domain.TaskStatusPaused,
		domain.TaskStatusCompleted,
	}, domain.AllStatuses())
}

// ---------------------------------------------------------------------------
// ClampProgress
// ---------------------------------------------------------------------------

func TestClampProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{-20, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{150, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.ClampProgress(tt.in), "input %d", tt.in)
	}
}

// ---------------------------------------------------------------------------
// Task.Clone
// ---------------------------------------------------------------------------

func TestTask_Clone(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)
	orig := domain.Task{
		ID:        uuid.New(),
		Title:     "UI Kit Update",
		Status:    domain.TaskStatusBacklog,
		Assignees: []string{"John Smith"},
		StartDate: &start,
		EndDate:   &end,
	}

	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Assignees[0] = "Jane"
	*c.EndDate = end.Add(time.Hour)

	assert.Equal(t, "John Smith", orig.Assignees[0], "assignees must not be shared")
	assert.Equal(t, end, *orig.EndDate, "dates must not be shared")
}

func TestTask_Clone_NilAssignees(t *testing.T) {
	t.Parallel()

	orig := domain.Task{Title: "X"}
	c := orig.Clone()
	assert.NotNil(t, c.Assignees)
	assert.Empty(t, c.Assignees)
	assert.Nil(t, c.StartDate)
}

func TestTask_HasAssignee(t *testing.T) {
	t.Parallel()

	task := domain.Task{Assignees: []string{"Jane", "Mike"}}
	assert.True(t, task.HasAssignee("Mike"))
	assert.False(t, task.HasAssignee("mike"))
}
