package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/taskboard/internal/api/v1"
	"github.com/gosuda/taskboard/internal/api/ws"
	"github.com/gosuda/taskboard/internal/board"
)

func registerAPIRoutes(api huma.API, svc *board.Service) {
	v1.RegisterTaskRoutes(api, svc)
	v1.RegisterBoardRoutes(api, svc)
	v1.RegisterDashboardRoutes(api, svc)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/board", hub.ServeBoard)
}
