package domain

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusPaused     TaskStatus = "paused"
	TaskStatusCompleted  TaskStatus = "completed"
)

// AllStatuses returns the statuses in board column order.
func AllStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusBacklog,
		TaskStatusInProgress,
		TaskStatusPaused,
		TaskStatusCompleted,
	}
}

// Valid reports whether s is one of the fixed statuses.
// Any status may follow any other; there is no transition table.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusInProgress, TaskStatusPaused, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a raw string into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("domain.ParseTaskStatus %q: %w", raw, ErrInvalidStatus)
	}
	return s, nil
}

const (
	MinProgress = 0
	MaxProgress = 100
)

// ClampProgress bounds a progress percentage to [MinProgress, MaxProgress].
func ClampProgress(p int) int {
	return max(MinProgress, min(MaxProgress, p))
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Assignees   []string   `json:"assignees"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of t so callers can never alias store state.
func (t *Task) Clone() Task {
	c := *t
	c.Assignees = slices.Clone(t.Assignees)
	if c.Assignees == nil {
		c.Assignees = []string{}
	}
	if t.StartDate != nil {
		d := *t.StartDate
		c.StartDate = &d
	}
	if t.EndDate != nil {
		d := *t.EndDate
		c.EndDate = &d
	}
	return c
}

// HasAssignee reports whether name is among the task's assignees.
func (t *Task) HasAssignee(name string) bool {
	return slices.Contains(t.Assignees, name)
}

// TaskDraft carries the caller-supplied fields of a new task. The store
// assigns the id, the timestamps and the initial progress.
type TaskDraft struct {
	Title       string
	Description string
	Status      TaskStatus
	Assignees   []string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Clock returns the current time. Stores take one so tests can pin it.
type Clock func() time.Time

// TaskStore is the authoritative task collection. Every mutation of a task
// goes through one of its four mutation methods.
type TaskStore interface {
	AddTask(ctx context.Context, draft TaskDraft) (Task, error)
	MoveTask(ctx context.Context, id uuid.UUID, status TaskStatus) error
	ReorderTasks(ctx context.Context, status TaskStatus, oldIndex, newIndex int) (uuid.UUID, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (Task, error)

	Get(ctx context.Context, id uuid.UUID) (Task, error)
	All(ctx context.Context) []Task
	Version() uint64
}
