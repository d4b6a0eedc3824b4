// Package board is the application layer over the task store. All
// mutations pass through it so each applied change is published as an
// events.BoardEvent; reads are served from the query layer.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/taskboard/internal/dnd"
	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/events"
	"github.com/gosuda/taskboard/internal/query"
)

var (
	_ domain.TaskStore = (*Service)(nil)
	_ dnd.Store        = (*Service)(nil)
)

type Service struct {
	store         domain.TaskStore
	broker        events.Broker
	channel       string
	view          *query.View
	clock         domain.Clock
	upcomingLimit int
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source for event stamps and the dashboard "now".
func WithClock(c domain.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithUpcomingLimit sets how many deadlines the dashboard lists.
func WithUpcomingLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.upcomingLimit = n
		}
	}
}

// NewService creates a Service. broker may be nil, in which case nothing is
// published.
func NewService(store domain.TaskStore, broker events.Broker, channel string, opts ...Option) *Service {
	s := &Service{
		store:         store,
		broker:        broker,
		channel:       channel,
		view:          query.NewView(store),
		clock:         time.Now,
		upcomingLimit: query.DefaultUpcomingLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Channel is the broker channel board events are published on.
func (s *Service) Channel() string {
	return s.channel
}

func (s *Service) AddTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	t, err := s.store.AddTask(ctx, draft)
	if err != nil {
		return domain.Task{}, fmt.Errorf("board.Service.AddTask: %w", err)
	}

	log.Debug().Str("task_id", t.ID.String()).Str("status", string(t.Status)).Msg("task created")
	s.publish(ctx, events.BoardEvent{Type: events.TypeTaskCreated, TaskID: t.ID, Status: t.Status, Task: &t})

	return t, nil
}

func (s *Service) MoveTask(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
	if err := s.store.MoveTask(ctx, id, status); err != nil {
		log.Debug().Err(err).Str("task_id", id.String()).Msg("move skipped")
		return fmt.Errorf("board.Service.MoveTask: %w", err)
	}

	ev := events.BoardEvent{Type: events.TypeTaskMoved, TaskID: id, Status: status}
	if t, err := s.store.Get(ctx, id); err == nil {
		ev.Task = &t
	}
	log.Debug().Str("task_id", id.String()).Str("status", string(status)).Msg("task moved")
	s.publish(ctx, ev)

	return nil
}

func (s *Service) ReorderTasks(ctx context.Context, status domain.TaskStatus, oldIndex, newIndex int) (uuid.UUID, error) {
	moved, err := s.store.ReorderTasks(ctx, status, oldIndex, newIndex)
	if err != nil {
		log.Debug().Err(err).Str("status", string(status)).Msg("reorder skipped")
		return uuid.Nil, fmt.Errorf("board.Service.ReorderTasks: %w", err)
	}
	if oldIndex == newIndex {
		return moved, nil
	}

	ev := events.BoardEvent{
		Type:     events.TypeTaskReordered,
		TaskID:   moved,
		Status:   status,
		OldIndex: &oldIndex,
		NewIndex: &newIndex,
	}
	log.Debug().
		Str("status", string(status)).
		Int("old_index", oldIndex).
		Int("new_index", newIndex).
		Msg("tasks reordered")
	s.publish(ctx, ev)

	return moved, nil
}

func (s *Service) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (domain.Task, error) {
	t, err := s.store.UpdateProgress(ctx, id, progress)
	if err != nil {
		log.Debug().Err(err).Str("task_id", id.String()).Msg("progress update skipped")
		return domain.Task{}, fmt.Errorf("board.Service.UpdateProgress: %w", err)
	}
	if t.Progress != progress {
		log.Debug().Int("requested", progress).Int("stored", t.Progress).Msg("progress clamped")
	}

	s.publish(ctx, events.BoardEvent{Type: events.TypeTaskProgress, TaskID: id, Status: t.Status, Task: &t})

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("board.Service.Get: %w", err)
	}
	return t, nil
}

func (s *Service) All(ctx context.Context) []domain.Task {
	return s.store.All(ctx)
}

func (s *Service) Version() uint64 {
	return s.store.Version()
}

// Drop runs one complete drag gesture: task active released over overID.
func (s *Service) Drop(ctx context.Context, active uuid.UUID, overID string) (dnd.Result, error) {
	res, err := dnd.Resolve(ctx, s, active, overID)
	if err != nil {
		return dnd.Result{}, fmt.Errorf("board.Service.Drop: %w", err)
	}
	logDrop(res, overID)
	return res, nil
}

// NewGesture returns a drag gesture whose mutations go through s.
func (s *Service) NewGesture() *dnd.Gesture {
	return dnd.NewGesture(s)
}

// EndGesture finishes g over overID and logs the outcome.
func (s *Service) EndGesture(ctx context.Context, g *dnd.Gesture, overID string) (dnd.Result, error) {
	res, err := g.End(ctx, overID)
	if err != nil {
		return dnd.Result{}, fmt.Errorf("board.Service.EndGesture: %w", err)
	}
	logDrop(res, overID)
	return res, nil
}

// Board returns the grouped-by-status view.
func (s *Service) Board(ctx context.Context) query.Board {
	return s.view.Board(ctx)
}

// Assignees returns the timeline rows.
func (s *Service) Assignees(ctx context.Context) []query.AssigneeRow {
	return query.GroupByAssignee(s.store.All(ctx))
}

// Dashboard returns stats and upcoming deadlines as of now.
func (s *Service) Dashboard(ctx context.Context) query.Dashboard {
	return query.BuildDashboard(s.store.All(ctx), s.clock(), s.upcomingLimit)
}

func (s *Service) publish(ctx context.Context, ev events.BoardEvent) {
	if s.broker == nil {
		return
	}
	ev.Version = s.store.Version()
	ev.At = s.clock()

	payload, err := ev.Encode()
	if err != nil {
		log.Error().Err(err).Msg("encode board event")
		return
	}
	// A failed publish never undoes the mutation.
	if err := s.broker.Publish(ctx, s.channel, payload); err != nil {
		log.Warn().Err(err).Str("type", string(ev.Type)).Msg("publish board event")
	}
}

func logDrop(res dnd.Result, overID string) {
	e := log.Debug().
		Str("task_id", res.TaskID.String()).
		Str("over", overID).
		Str("outcome", string(res.Outcome))
	if res.Reason != "" {
		e = e.Str("reason", res.Reason)
	}
	e.Msg("drag resolved")
}
