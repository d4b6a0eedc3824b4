package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/domain"
)

type CreateTaskInput struct {
	Body struct {
		Title       string     `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Description string     `json:"description,omitempty" doc:"Task description"`
		Status      string     `json:"status,omitempty" doc:"Initial status (default backlog)"`
		Assignees   []string   `json:"assignees,omitempty" doc:"Assignee names"`
		StartDate   *time.Time `json:"start_date,omitempty" doc:"Planned start"`
		EndDate     *time.Time `json:"end_date,omitempty" doc:"Deadline"`
	}
}

type TaskOutput struct {
	Body domain.Task
}

type ListTasksInput struct {
	Status string `query:"status" doc:"Filter by status"`
}

type ListTasksOutput struct {
	Body []domain.Task
}

type GetTaskInput struct {
	ID uuid.UUID `path:"id" doc:"Task ID"`
}

type MoveTaskInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Status string `json:"status" minLength:"1" doc:"Destination status"`
	}
}

type UpdateProgressInput struct {
	ID   uuid.UUID `path:"id" doc:"Task ID"`
	Body struct {
		Progress int `json:"progress" doc:"Completion percentage; clamped to 0..100"`
	}
}

func RegisterTaskRoutes(api huma.API, svc TaskService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create a new task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*TaskOutput, error) {
		t, err := svc.AddTask(ctx, domain.TaskDraft{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Status:      domain.TaskStatus(input.Body.Status),
			Assignees:   input.Body.Assignees,
			StartDate:   input.Body.StartDate,
			EndDate:     input.Body.EndDate,
		})
		if err != nil {
			return nil, toHTTPError(err, "failed to create task")
		}

		return &TaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks in board order",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		tasks := svc.All(ctx)
		if input.Status == "" {
			return &ListTasksOutput{Body: tasks}, nil
		}

		status, err := domain.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, toHTTPError(err, "failed to list tasks")
		}

		filtered := make([]domain.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Status == status {
				filtered = append(filtered, t)
			}
		}

		return &ListTasksOutput{Body: filtered}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*TaskOutput, error) {
		t, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, toHTTPError(err, "failed to get task")
		}

		return &TaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}/status",
		Summary:     "Move a task to another status column",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *MoveTaskInput) (*TaskOutput, error) {
		status, err := domain.ParseTaskStatus(input.Body.Status)
		if err != nil {
			return nil, toHTTPError(err, "failed to move task")
		}

		if err := svc.MoveTask(ctx, input.ID, status); err != nil {
			return nil, toHTTPError(err, "failed to move task")
		}

		t, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, toHTTPError(err, "failed to get task")
		}

		return &TaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task-progress",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}/progress",
		Summary:     "Set task progress",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateProgressInput) (*TaskOutput, error) {
		t, err := svc.UpdateProgress(ctx, input.ID, input.Body.Progress)
		if err != nil {
			return nil, toHTTPError(err, "failed to update progress")
		}

		return &TaskOutput{Body: t}, nil
	})
}
