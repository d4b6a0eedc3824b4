// Package dnd interprets the end state of a board drag gesture as a store
// mutation: a drop on a column moves the task there, a drop on a sibling
// task of the same column reorders the column, anything else does nothing.
package dnd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/domain"
)

// ColumnSuffix marks a drop target id as a status column rather than a task.
const ColumnSuffix = "-column"

// ColumnID returns the drop target id of a status column, e.g. "paused-column".
func ColumnID(status domain.TaskStatus) string {
	return string(status) + ColumnSuffix
}

// ParseColumnID decodes a column drop target id. It reports false for task
// ids and for columns of unknown statuses.
func ParseColumnID(id string) (domain.TaskStatus, bool) {
	raw, ok := strings.CutSuffix(id, ColumnSuffix)
	if !ok {
		return "", false
	}
	s := domain.TaskStatus(raw)
	if !s.Valid() {
		return "", false
	}
	return s, true
}

// Store is the part of the task store the protocol reads and mutates.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Task, error)
	All(ctx context.Context) []domain.Task
	MoveTask(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error
	ReorderTasks(ctx context.Context, status domain.TaskStatus, oldIndex, newIndex int) (uuid.UUID, error)
}

type Outcome string

const (
	OutcomeNone      Outcome = "none"
	OutcomeMoved     Outcome = "moved"
	OutcomeReordered Outcome = "reordered"
)

// Reasons attached to an OutcomeNone result.
const (
	ReasonNotDragging   = "not_dragging"
	ReasonNoTarget      = "no_target"
	ReasonSelf          = "dropped_on_self"
	ReasonStaleActive   = "active_task_missing"
	ReasonUnknownTarget = "unknown_target"
	ReasonStaleTarget   = "target_task_missing"
	ReasonOtherColumn   = "target_in_other_column"
	ReasonStaleIndex    = "stale_position"
)

// Result describes what a drop did.
type Result struct {
	Outcome  Outcome           `json:"outcome"`
	TaskID   uuid.UUID         `json:"task_id"`
	Status   domain.TaskStatus `json:"status,omitempty"`
	OldIndex int               `json:"old_index"`
	NewIndex int               `json:"new_index"`
	Reason   string            `json:"reason,omitempty"`
}

func none(active uuid.UUID, reason string) Result {
	return Result{Outcome: OutcomeNone, TaskID: active, OldIndex: -1, NewIndex: -1, Reason: reason}
}

// Resolve applies one drop of task active onto target overID. A vanished
// task, a stale position or an unusable target is a no-op, never an error;
// only unexpected store failures are returned.
func Resolve(ctx context.Context, store Store, active uuid.UUID, overID string) (Result, error) {
	if overID == "" {
		return none(active, ReasonNoTarget), nil
	}
	if overID == active.String() {
		return none(active, ReasonSelf), nil
	}

	activeTask, err := store.Get(ctx, active)
	if errors.Is(err, domain.ErrNotFound) {
		return none(active, ReasonStaleActive), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("dnd.Resolve: get active: %w", err)
	}

	if status, ok := ParseColumnID(overID); ok {
		err = store.MoveTask(ctx, active, status)
		if errors.Is(err, domain.ErrNotFound) {
			return none(active, ReasonStaleActive), nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("dnd.Resolve: move: %w", err)
		}
		return Result{Outcome: OutcomeMoved, TaskID: active, Status: status, OldIndex: -1, NewIndex: -1}, nil
	}

	overTaskID, err := uuid.Parse(overID)
	if err != nil {
		return none(active, ReasonUnknownTarget), nil
	}
	if overTaskID == active {
		return none(active, ReasonSelf), nil
	}
	overTask, err := store.Get(ctx, overTaskID)
	if errors.Is(err, domain.ErrNotFound) {
		return none(active, ReasonStaleTarget), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("dnd.Resolve: get target: %w", err)
	}
	if overTask.Status != activeTask.Status {
		return none(active, ReasonOtherColumn), nil
	}

	status := activeTask.Status
	oldIndex, newIndex := positions(store.All(ctx), status, active, overTaskID)
	if oldIndex < 0 || newIndex < 0 {
		return none(active, ReasonStaleIndex), nil
	}

	_, err = store.ReorderTasks(ctx, status, oldIndex, newIndex)
	if errors.Is(err, domain.ErrInvalidIndex) {
		return none(active, ReasonStaleIndex), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("dnd.Resolve: reorder: %w", err)
	}

	return Result{Outcome: OutcomeReordered, TaskID: active, Status: status, OldIndex: oldIndex, NewIndex: newIndex}, nil
}

// positions finds the indices of two tasks inside one status group.
func positions(tasks []domain.Task, status domain.TaskStatus, a, b uuid.UUID) (int, int) {
	ai, bi, i := -1, -1, 0
	for _, t := range tasks {
		if t.Status != status {
			continue
		}
		switch t.ID {
		case a:
			ai = i
		case b:
			bi = i
		}
		i++
	}
	return ai, bi
}

// Gesture tracks one in-flight drag: idle until Start, dragging until End
// or Cancel. End always leaves the gesture idle, whatever the outcome.
type Gesture struct {
	store Store

	mu       sync.Mutex
	active   uuid.UUID
	dragging bool
}

// NewGesture creates an idle gesture bound to store.
func NewGesture(store Store) *Gesture {
	return &Gesture{store: store}
}

// Start begins dragging task id. Starting again replaces the active task.
func (g *Gesture) Start(id uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = id
	g.dragging = true
}

// Active returns the dragged task id, if any.
func (g *Gesture) Active() (uuid.UUID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active, g.dragging
}

// Cancel abandons the drag without mutating anything.
func (g *Gesture) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = uuid.Nil
	g.dragging = false
}

// End finishes the drag over target overID ("" for no target).
func (g *Gesture) End(ctx context.Context, overID string) (Result, error) {
	g.mu.Lock()
	active, dragging := g.active, g.dragging
	g.active = uuid.Nil
	g.dragging = false
	g.mu.Unlock()

	if !dragging {
		return none(uuid.Nil, ReasonNotDragging), nil
	}
	return Resolve(ctx, g.store, active, overID)
}
