package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/taskboard/internal/api/v1"
	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/dnd"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/query"
	"github.com/gosuda/taskboard/internal/store/memory"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Harness — real service over the in-memory store
// ---------------------------------------------------------------------------

func newAPI(t *testing.T) (humatest.TestAPI, *board.Service) {
	t.Helper()

	_, api := humatest.New(t)
	svc := board.NewService(memory.New(memory.WithClock(func() time.Time { return fixedNow })), nil, "board",
		board.WithClock(func() time.Time { return fixedNow }),
		board.WithUpcomingLimit(2),
	)
	v1.RegisterTaskRoutes(api, svc)
	v1.RegisterBoardRoutes(api, svc)
	v1.RegisterDashboardRoutes(api, svc)
	return api, svc
}

func addTask(t *testing.T, svc *board.Service, title string, status domain.TaskStatus) domain.Task {
	t.Helper()
	task, err := svc.AddTask(context.Background(), domain.TaskDraft{Title: title, Status: status})
	require.NoError(t, err)
	return task
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

// ---------------------------------------------------------------------------
// Failing service — every call reports an unexpected error
// ---------------------------------------------------------------------------

var errBackend = errors.New("backend unavailable")

type failingService struct{}

func (failingService) AddTask(context.Context, domain.TaskDraft) (domain.Task, error) {
	return domain.Task{}, errBackend
}

func (failingService) MoveTask(context.Context, uuid.UUID, domain.TaskStatus) error {
	return errBackend
}

func (failingService) ReorderTasks(context.Context, domain.TaskStatus, int, int) (uuid.UUID, error) {
	return uuid.Nil, errBackend
}

func (failingService) UpdateProgress(context.Context, uuid.UUID, int) (domain.Task, error) {
	return domain.Task{}, errBackend
}

func (failingService) Get(context.Context, uuid.UUID) (domain.Task, error) {
	return domain.Task{}, errBackend
}

func (failingService) All(context.Context) []domain.Task { return nil }

func (failingService) Drop(context.Context, uuid.UUID, string) (dnd.Result, error) {
	return dnd.Result{}, errBackend
}

func (failingService) Board(context.Context) query.Board { return query.Board{} }

func (failingService) Assignees(context.Context) []query.AssigneeRow { return nil }

func (failingService) Dashboard(context.Context) query.Dashboard { return query.Dashboard{} }
