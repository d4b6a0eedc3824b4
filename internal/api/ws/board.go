package ws

import (
	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/dnd"
	"github.com/gosuda/taskboard/internal/query"
)

// Server frame types. Board change events are forwarded verbatim and carry
// their own type (task_created, task_moved, ...).
const (
	FrameSnapshot   = "snapshot"
	FrameDropResult = "drop_result"
	FrameError      = "error"
)

// Client frame types.
const (
	FrameDragStart  = "drag_start"
	FrameDragEnd    = "drag_end"
	FrameDragCancel = "drag_cancel"
)

// ServerFrame is a hub-originated message.
type ServerFrame struct {
	Type   string       `json:"type"`
	Board  *query.Board `json:"board,omitempty"`
	Result *dnd.Result  `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// ClientFrame drives the connection's drag gesture.
type ClientFrame struct {
	Type   string    `json:"type"`
	TaskID uuid.UUID `json:"task_id,omitempty"`
	OverID string    `json:"over_id,omitempty"`
}
