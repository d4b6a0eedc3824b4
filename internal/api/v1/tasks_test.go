package v1_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/taskboard/internal/api/v1"
	"github.com/gosuda/taskboard/internal/domain"
)

// ---------------------------------------------------------------------------
// TestCreateTask
// ---------------------------------------------------------------------------

func TestCreateTask(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		api, svc := newAPI(t)
		resp := api.Post("/tasks", map[string]any{
			"title":       "Design Login Page",
			"description": "Mockups for the login flow",
			"status":      "in-progress",
			"assignees":   []string{"Alice", "Bob"},
			"end_date":    "2026-10-25T00:00:00Z",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		body := decode[domain.Task](t, resp)
		assert.NotEqual(t, uuid.Nil, body.ID)
		assert.Equal(t, "Design Login Page", body.Title)
		assert.Equal(t, domain.TaskStatusInProgress, body.Status)
		assert.Equal(t, []string{"Alice", "Bob"}, body.Assignees)
		assert.Equal(t, 0, body.Progress)
		require.NotNil(t, body.EndDate)
		assert.Nil(t, body.StartDate)
		assert.True(t, body.CreatedAt.Equal(fixedNow))

		stored, err := svc.Get(context.Background(), body.ID)
		require.NoError(t, err)
		assert.Equal(t, body.Title, stored.Title)
	})

	t.Run("defaults_to_backlog", func(t *testing.T) {
		t.Parallel()

		api, _ := newAPI(t)
		resp := api.Post("/tasks", map[string]any{"title": "Untriaged"})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, domain.TaskStatusBacklog, decode[domain.Task](t, resp).Status)
	})

	t.Run("unknown_status", func(t *testing.T) {
		t.Parallel()

		api, svc := newAPI(t)
		resp := api.Post("/tasks", map[string]any{"title": "X", "status": "review"})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Empty(t, svc.All(context.Background()))
	})

	t.Run("empty_title", func(t *testing.T) {
		t.Parallel()

		api, _ := newAPI(t)
		resp := api.Post("/tasks", map[string]any{"title": ""})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("backend_error", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterTaskRoutes(api, failingService{})
		resp := api.Post("/tasks", map[string]any{"title": "X"})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestListTasks
// ---------------------------------------------------------------------------

func TestListTasks(t *testing.T) {
	t.Parallel()

	t.Run("insertion_order", func(t *testing.T) {
		t.Parallel()

		api, svc := newAPI(t)
		addTask(t, svc, "A", domain.TaskStatusBacklog)
		addTask(t, svc, "B", domain.TaskStatusPaused)
		addTask(t, svc, "C", domain.TaskStatusBacklog)

		resp := api.Get("/tasks")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, []string{"A", "B", "C"}, titles(decode[[]domain.Task](t, resp)))
	})

	t.Run("filtered_by_status", func(t *testing.T) {
		t.Parallel()

		api, svc := newAPI(t)
		addTask(t, svc, "A", domain.TaskStatusBacklog)
		addTask(t, svc, "B", domain.TaskStatusPaused)
		addTask(t, svc, "C", domain.TaskStatusBacklog)

		resp := api.Get("/tasks?status=backlog")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, []string{"A", "C"}, titles(decode[[]domain.Task](t, resp)))
	})

	t.Run("empty_board", func(t *testing.T) {
		t.Parallel()

		api, _ := newAPI(t)
		resp := api.Get("/tasks")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Empty(t, decode[[]domain.Task](t, resp))
	})

	t.Run("unknown_status", func(t *testing.T) {
		t.Parallel()

		api, _ := newAPI(t)
		resp := api.Get("/tasks?status=done")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestGetTask
// ---------------------------------------------------------------------------

func TestGetTask(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		api, svc := newAPI(t)
		task := addTask(t, svc, "A", domain.TaskStatusPaused)

		resp := api.Get("/tasks/" + task.ID.String())
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, task.ID, decode[domain.Task](t, resp).ID)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		api, _ := newAPI(t)
		resp := api.Get("/tasks/" + uuid.NewString())
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("malformed_id", func(t *testing.T) {
		t.Parallel()

		api, _ := newAPI(t)
		resp := api.Get("/tasks/not-a-uuid")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// TestMoveTask
// ---------------------------------------------------------------------------

func TestMoveTask(t *testing.T) {
	t.Parallel()

	t.Run("moves_to_end_of_column", func(t *testing.T) {
		t.Parallel()

		api, svc := newAPI(t)
		a := addTask(t, svc, "A", domain.TaskStatusBacklog)
		addTask(t, svc, "P", domain.TaskStatusPaused)

		resp := api.Patch("/tasks/"+a.ID.String()+"/status", map[string]any{"status": "paused"})
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, domain.TaskStatusPaused, decode[domain.Task](t, resp).Status)

		b := svc.Board(context.Background())
		assert.Equal(t, []string{"P", "A"}, titles(b.Column(domain.TaskStatusPaused)))
		assert.Empty(t, b.Column(domain.TaskStatusBacklog))
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		api, svc := newAPI(t)
		addTask(t, svc, "A", domain.TaskStatusBacklog)
		before := svc.All(context.Background())

		resp := api.Patch("/tasks/"+uuid.NewString()+"/status", map[string]any{"status": "paused"})
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, before, svc.All(context.Background()))
	})

	t.Run("unknown_status", func(t *testing.T) {
		t.Parallel()

		api, svc := newAPI(t)
		a := addTask(t, svc, "A", domain.TaskStatusBacklog)

		resp := api.Patch("/tasks/"+a.ID.String()+"/status", map[string]any{"status": "archived"})
		assert.Equal(t, http.StatusBadRequest, resp.Code)

		got, err := svc.Get(context.Background(), a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusBacklog, got.Status)
	})
}

// ---------------------------------------------------------------------------
// TestUpdateProgress
// ---------------------------------------------------------------------------

func TestUpdateProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   int
		want int
	}{
		{name: "in_range", in: 45, want: 45},
		{name: "clamped_high", in: 150, want: 100},
		{name: "clamped_low", in: -5, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api, svc := newAPI(t)
			a := addTask(t, svc, "A", domain.TaskStatusInProgress)

			resp := api.Patch("/tasks/"+a.ID.String()+"/progress", map[string]any{"progress": tc.in})
			require.Equal(t, http.StatusOK, resp.Code)
			assert.Equal(t, tc.want, decode[domain.Task](t, resp).Progress)
		})
	}

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		api, _ := newAPI(t)
		resp := api.Patch("/tasks/"+uuid.NewString()+"/progress", map[string]any{"progress": 10})
		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
