package query

import (
	"context"
	"sync"

	"github.com/gosuda/taskboard/internal/domain"
)

// Source is the read side of the task store.
type Source interface {
	All(ctx context.Context) []domain.Task
	Version() uint64
}

// View memoizes the board on the store version. A cached board is rebuilt
// as soon as any mutation bumps the version.
type View struct {
	src Source

	mu    sync.Mutex
	board *Board
}

// NewView creates a View over src.
func NewView(src Source) *View {
	return &View{src: src}
}

// Board returns the current board. The result is a private copy.
func (v *View) Board(ctx context.Context) Board {
	// Read the version before the snapshot: a concurrent mutation then only
	// makes the cached board look older than it is, which forces a rebuild.
	version := v.src.Version()

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.board == nil || v.board.Version != version {
		b := BuildBoard(v.src.All(ctx), version)
		v.board = &b
	}
	return v.board.clone()
}

func (b Board) clone() Board {
	out := Board{Version: b.Version, Columns: make([]Column, len(b.Columns))}
	for i, c := range b.Columns {
		tasks := make([]domain.Task, len(c.Tasks))
		for j := range c.Tasks {
			tasks[j] = c.Tasks[j].Clone()
		}
		out.Columns[i] = Column{Status: c.Status, Tasks: tasks}
	}
	return out
}
