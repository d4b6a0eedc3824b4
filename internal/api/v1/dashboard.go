package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskboard/internal/query"
)

type GetDashboardOutput struct {
	Body query.Dashboard
}

func RegisterDashboardRoutes(api huma.API, svc BoardService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Get board statistics and upcoming deadlines",
		Tags:        []string{"Dashboard"},
	}, func(ctx context.Context, _ *struct{}) (*GetDashboardOutput, error) {
		return &GetDashboardOutput{Body: svc.Dashboard(ctx)}, nil
	})
}
