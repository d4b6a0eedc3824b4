package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/dnd"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/query"
)

type GetBoardOutput struct {
	Body query.Board
}

type GetAssigneesOutput struct {
	Body []query.AssigneeRow
}

type ReorderInput struct {
	Status string `path:"status" doc:"Column status"`
	Body   struct {
		OldIndex int `json:"old_index" minimum:"0" doc:"Current position inside the column"`
		NewIndex int `json:"new_index" minimum:"0" doc:"Target position inside the column"`
	}
}

type DragInput struct {
	Body struct {
		ActiveID uuid.UUID `json:"active_id" doc:"Dragged task ID"`
		OverID   string    `json:"over_id,omitempty" doc:"Drop target: a task ID or <status>-column; empty when dropped outside"`
	}
}

type DragOutput struct {
	Body dnd.Result
}

func RegisterBoardRoutes(api huma.API, svc BoardService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/board",
		Summary:     "Get the kanban board grouped by status",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, _ *struct{}) (*GetBoardOutput, error) {
		return &GetBoardOutput{Body: svc.Board(ctx)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board-assignees",
		Method:      http.MethodGet,
		Path:        "/board/assignees",
		Summary:     "Get timeline rows grouped by assignee",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, _ *struct{}) (*GetAssigneesOutput, error) {
		return &GetAssigneesOutput{Body: svc.Assignees(ctx)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reorder-column",
		Method:      http.MethodPost,
		Path:        "/board/{status}/reorder",
		Summary:     "Move a task to another position inside its column",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, input *ReorderInput) (*GetBoardOutput, error) {
		status, err := domain.ParseTaskStatus(input.Status)
		if err != nil {
			return nil, toHTTPError(err, "failed to reorder column")
		}

		_, err = svc.ReorderTasks(ctx, status, input.Body.OldIndex, input.Body.NewIndex)
		if err != nil {
			return nil, toHTTPError(err, "failed to reorder column")
		}

		return &GetBoardOutput{Body: svc.Board(ctx)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "drop-task",
		Method:      http.MethodPost,
		Path:        "/board/drag",
		Summary:     "Resolve a finished drag gesture",
		Description: "Applies the drop of active_id over over_id. Drops that resolve to nothing return outcome \"none\" with a reason.",
		Tags:        []string{"Board"},
	}, func(ctx context.Context, input *DragInput) (*DragOutput, error) {
		res, err := svc.Drop(ctx, input.Body.ActiveID, input.Body.OverID)
		if err != nil {
			return nil, toHTTPError(err, "failed to resolve drop")
		}

		return &DragOutput{Body: res}, nil
	})
}
