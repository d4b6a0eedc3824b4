package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/dnd"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/query"
)

// TaskService abstracts the board operations for handler testing.
// *board.Service satisfies this interface.
type TaskService interface {
	AddTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error)
	MoveTask(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error
	ReorderTasks(ctx context.Context, status domain.TaskStatus, oldIndex, newIndex int) (uuid.UUID, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (domain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Task, error)
	All(ctx context.Context) []domain.Task
}

// BoardService abstracts the derived views and the drag protocol.
// *board.Service satisfies this interface.
type BoardService interface {
	ReorderTasks(ctx context.Context, status domain.TaskStatus, oldIndex, newIndex int) (uuid.UUID, error)
	Drop(ctx context.Context, active uuid.UUID, overID string) (dnd.Result, error)
	Board(ctx context.Context) query.Board
	Assignees(ctx context.Context) []query.AssigneeRow
	Dashboard(ctx context.Context) query.Dashboard
}
