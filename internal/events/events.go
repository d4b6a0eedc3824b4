// Package events carries board change notifications from the board service
// to websocket clients and any other subscriber.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/domain"
)

type Type string

const (
	TypeTaskCreated   Type = "task_created"
	TypeTaskMoved     Type = "task_moved"
	TypeTaskReordered Type = "task_reordered"
	TypeTaskProgress  Type = "task_progress"
)

// BoardEvent represents a real-time kanban board update.
type BoardEvent struct {
	Type     Type              `json:"type"`
	TaskID   uuid.UUID         `json:"task_id"`
	Status   domain.TaskStatus `json:"status,omitempty"`
	OldIndex *int              `json:"old_index,omitempty"`
	NewIndex *int              `json:"new_index,omitempty"`
	Task     *domain.Task      `json:"task,omitempty"`
	Version  uint64            `json:"version"`
	At       time.Time         `json:"at"`
}

// Encode serializes the event for a broker payload.
func (e BoardEvent) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("events.BoardEvent.Encode: %w", err)
	}
	return b, nil
}

// Decode parses a broker payload.
func Decode(payload []byte) (BoardEvent, error) {
	var e BoardEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return BoardEvent{}, fmt.Errorf("events.Decode: %w", err)
	}
	return e, nil
}

// Broker fans payloads out to every subscriber of a channel.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of payloads and a cleanup func. The
	// channel is closed when ctx ends or cleanup runs.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
	Close() error
}

// BoardChannel returns the broker channel for board events.
func BoardChannel(prefix string) string {
	if prefix == "" {
		return "board"
	}
	return prefix + ":board"
}
