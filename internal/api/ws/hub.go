package ws

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/dnd"
	"github.com/gosuda/taskboard/internal/events"
	"github.com/gosuda/taskboard/internal/query"
)

// BoardService is the part of the board service a connection needs.
// *board.Service satisfies this interface.
type BoardService interface {
	Channel() string
	Board(ctx context.Context) query.Board
	NewGesture() *dnd.Gesture
	EndGesture(ctx context.Context, g *dnd.Gesture, overID string) (dnd.Result, error)
}

// Hub manages WebSocket connections backed by an events.Broker.
type Hub struct {
	broker  events.Broker
	svc     BoardService
	origins []string
}

// NewHub creates a new WebSocket hub. allowedOrigins are full origins
// ("http://localhost:5173") or "*"; requests without an Origin header are
// always accepted.
func NewHub(broker events.Broker, svc BoardService, allowedOrigins []string) *Hub {
	return &Hub{broker: broker, svc: svc, origins: originPatterns(allowedOrigins)}
}

// ServeBoard handles WebSocket connections for kanban board updates.
// It sends a snapshot, then forwards every board event published on the
// service channel. Client frames drive one drag gesture per connection; the
// gesture is cancelled when the connection goes away.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Subscribe before the snapshot so no event falls in between.
	messages, cleanup, err := h.broker.Subscribe(ctx, h.svc.Channel())
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	board := h.svc.Board(ctx)
	if err := wsjson.Write(ctx, conn, ServerFrame{Type: FrameSnapshot, Board: &board}); err != nil {
		log.Debug().Err(err).Msg("websocket write snapshot")
		return
	}

	gesture := h.svc.NewGesture()
	defer gesture.Cancel()

	replies := make(chan ServerFrame, 8)
	go h.readFrames(ctx, cancel, conn, gesture, replies)

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		case frame := <-replies:
			if writeErr := wsjson.Write(ctx, conn, frame); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

// readFrames consumes client frames until the connection fails, then
// cancels the connection context.
func (h *Hub) readFrames(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, g *dnd.Gesture, replies chan<- ServerFrame) {
	defer cancel()

	for {
		var frame ClientFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				log.Debug().Err(err).Msg("websocket read")
			}
			return
		}

		reply, ok := h.handleFrame(ctx, g, frame)
		if !ok {
			continue
		}
		select {
		case replies <- reply:
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleFrame(ctx context.Context, g *dnd.Gesture, frame ClientFrame) (ServerFrame, bool) {
	switch frame.Type {
	case FrameDragStart:
		g.Start(frame.TaskID)
		return ServerFrame{}, false
	case FrameDragCancel:
		g.Cancel()
		return ServerFrame{}, false
	case FrameDragEnd:
		res, err := h.svc.EndGesture(ctx, g, frame.OverID)
		if err != nil {
			log.Error().Err(err).Msg("websocket drop")
			return ServerFrame{Type: FrameError, Error: "drop failed"}, true
		}
		return ServerFrame{Type: FrameDropResult, Result: &res}, true
	default:
		return ServerFrame{Type: FrameError, Error: "unknown frame type " + frame.Type}, true
	}
}

// originPatterns converts allowed origins to the host patterns
// websocket.AcceptOptions expects.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			patterns = append(patterns, o)
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			patterns = append(patterns, o)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
