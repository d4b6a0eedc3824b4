// Package memory holds the authoritative, process-local task collection.
//
// Tasks live in an insertion-ordered map keyed by id. The map order is the
// canonical order; a status group is the canonical order filtered to one
// status. Moves and reorders rearrange entries in the map so that both
// orders stay consistent after every mutation.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/gosuda/taskboard/internal/domain"
)

var _ domain.TaskStore = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	tasks   *orderedmap.OrderedMap[uuid.UUID, *domain.Task]
	clock   domain.Clock
	version uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(c domain.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		tasks: orderedmap.New[uuid.UUID, *domain.Task](),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTask appends a new task at the end of the canonical order. The store
// assigns the id, both timestamps and a progress of zero. An empty draft
// status means backlog.
func (s *Store) AddTask(_ context.Context, draft domain.TaskDraft) (domain.Task, error) {
	status := draft.Status
	if status == "" {
		status = domain.TaskStatusBacklog
	}
	if !status.Valid() {
		return domain.Task{}, fmt.Errorf("memory.Store.AddTask: status %q: %w", status, domain.ErrInvalidStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	t := &domain.Task{
		ID:          s.freshID(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      status,
		Assignees:   cloneAssignees(draft.Assignees),
		StartDate:   cloneTime(draft.StartDate),
		EndDate:     cloneTime(draft.EndDate),
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks.Set(t.ID, t)
	s.version++

	return t.Clone(), nil
}

// Restore inserts a fully formed task, keeping its id and progress. It is
// the initialization path for seed data; a nil id gets a fresh one and zero
// timestamps are set to now.
func (s *Store) Restore(_ context.Context, task domain.Task) (domain.Task, error) {
	if !task.Status.Valid() {
		return domain.Task{}, fmt.Errorf("memory.Store.Restore: status %q: %w", task.Status, domain.ErrInvalidStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := task.Clone()
	if t.ID == uuid.Nil {
		t.ID = s.freshID()
	} else if _, exists := s.tasks.Get(t.ID); exists {
		return domain.Task{}, fmt.Errorf("memory.Store.Restore: duplicate id %s: %w", t.ID, domain.ErrInvalidInput)
	}

	now := s.clock()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
	t.Progress = domain.ClampProgress(t.Progress)

	s.tasks.Set(t.ID, &t)
	s.version++

	return t.Clone(), nil
}

// MoveTask sets the status of a task. A task that changes status goes to the
// end of its new status group; the other members of both groups keep their
// relative order. Moving a task to the status it already has only refreshes
// updatedAt. An unknown id changes nothing and reports domain.ErrNotFound.
func (s *Store) MoveTask(_ context.Context, id uuid.UUID, status domain.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("memory.Store.MoveTask: status %q: %w", status, domain.ErrInvalidStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks.Get(id)
	if !ok {
		return fmt.Errorf("memory.Store.MoveTask %s: %w", id, domain.ErrNotFound)
	}

	if t.Status != status {
		t.Status = status
		// Every other task keeps its slot, so both groups keep their order.
		if err := s.tasks.MoveToBack(id); err != nil {
			return fmt.Errorf("memory.Store.MoveTask: %w", err)
		}
	}
	s.touch(t)
	s.version++

	return nil
}

// ReorderTasks moves the element at oldIndex of a status group to newIndex,
// shifting the members in between by one. Indices address the group's
// current order and must both lie in [0, len(group)); anything else is
// rejected with domain.ErrInvalidIndex and the store is left unchanged.
// The returned id is the task found at oldIndex under the same lock.
func (s *Store) ReorderTasks(_ context.Context, status domain.TaskStatus, oldIndex, newIndex int) (uuid.UUID, error) {
	if !status.Valid() {
		return uuid.Nil, fmt.Errorf("memory.Store.ReorderTasks: status %q: %w", status, domain.ErrInvalidStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	group := s.groupIDs(status)
	if oldIndex < 0 || oldIndex >= len(group) || newIndex < 0 || newIndex >= len(group) {
		return uuid.Nil, fmt.Errorf("memory.Store.ReorderTasks: %s [%d -> %d] of %d: %w",
			status, oldIndex, newIndex, len(group), domain.ErrInvalidIndex)
	}
	if oldIndex == newIndex {
		return group[oldIndex], nil
	}

	moved, mark := group[oldIndex], group[newIndex]
	var err error
	if newIndex > oldIndex {
		err = s.tasks.MoveAfter(moved, mark)
	} else {
		err = s.tasks.MoveBefore(moved, mark)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("memory.Store.ReorderTasks: %w", err)
	}

	if t, ok := s.tasks.Get(moved); ok {
		s.touch(t)
	}
	s.version++

	return moved, nil
}

// UpdateProgress sets a task's progress, clamped to [0, 100].
func (s *Store) UpdateProgress(_ context.Context, id uuid.UUID, progress int) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks.Get(id)
	if !ok {
		return domain.Task{}, fmt.Errorf("memory.Store.UpdateProgress %s: %w", id, domain.ErrNotFound)
	}

	t.Progress = domain.ClampProgress(progress)
	s.touch(t)
	s.version++

	return t.Clone(), nil
}

// Get returns a copy of one task.
func (s *Store) Get(_ context.Context, id uuid.UUID) (domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks.Get(id)
	if !ok {
		return domain.Task{}, fmt.Errorf("memory.Store.Get %s: %w", id, domain.ErrNotFound)
	}
	return t.Clone(), nil
}

// All returns copies of every task in canonical order.
func (s *Store) All(_ context.Context) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Task, 0, s.tasks.Len())
	for p := s.tasks.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value.Clone())
	}
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.Len()
}

// Version increases by one on every applied mutation. Readers can use it to
// tell whether a derived view is stale.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// groupIDs returns the ids of one status group in order. Caller holds s.mu.
func (s *Store) groupIDs(status domain.TaskStatus) []uuid.UUID {
	var ids []uuid.UUID
	for p := s.tasks.Oldest(); p != nil; p = p.Next() {
		if p.Value.Status == status {
			ids = append(ids, p.Key)
		}
	}
	return ids
}

// touch refreshes updatedAt without ever moving it backwards.
func (s *Store) touch(t *domain.Task) {
	now := s.clock()
	if now.After(t.UpdatedAt) {
		t.UpdatedAt = now
	}
}

func (s *Store) freshID() uuid.UUID {
	for {
		id := uuid.New()
		if _, taken := s.tasks.Get(id); !taken {
			return id
		}
	}
}

func cloneAssignees(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
