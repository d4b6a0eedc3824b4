// Package seed builds the initial task collection from a YAML file or from
// the embedded demo board.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gosuda/taskboard/internal/domain"
)

//go:embed demo.yaml
var demo []byte

// File is the on-disk seed format.
type File struct {
	Tasks []Entry `yaml:"tasks"`
}

// Entry is one seeded task. Dates are either absolute (start_date/end_date)
// or whole-day offsets from the load time; an absolute date wins.
type Entry struct {
	ID              string     `yaml:"id,omitempty"`
	Title           string     `yaml:"title"`
	Description     string     `yaml:"description,omitempty"`
	Status          string     `yaml:"status"`
	Assignees       []string   `yaml:"assignees,omitempty"`
	StartDate       *time.Time `yaml:"start_date,omitempty"`
	EndDate         *time.Time `yaml:"end_date,omitempty"`
	StartOffsetDays *int       `yaml:"start_offset_days,omitempty"`
	EndOffsetDays   *int       `yaml:"end_offset_days,omitempty"`
	Progress        int        `yaml:"progress,omitempty"`
}

// Parse decodes and checks a seed document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}

	var errs []error
	seen := make(map[string]struct{}, len(f.Tasks))
	for i, e := range f.Tasks {
		if e.Title == "" {
			errs = append(errs, fmt.Errorf("task %d: title is required: %w", i, domain.ErrInvalidInput))
		}
		if _, err := domain.ParseTaskStatus(e.Status); err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", i, err))
		}
		if e.ID == "" {
			continue
		}
		if _, err := uuid.Parse(e.ID); err != nil {
			errs = append(errs, fmt.Errorf("task %d: id %q: %w", i, e.ID, domain.ErrInvalidInput))
		}
		if _, dup := seen[e.ID]; dup {
			errs = append(errs, fmt.Errorf("task %d: duplicate id %s: %w", i, e.ID, domain.ErrInvalidInput))
		}
		seen[e.ID] = struct{}{}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}

	return &f, nil
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed.Load: %w", err)
	}
	return Parse(data)
}

// Demo returns the embedded demo board.
func Demo() *File {
	f, err := Parse(demo)
	if err != nil {
		panic("seed: embedded demo is invalid: " + err.Error())
	}
	return f
}

// Materialize converts the entries to tasks, resolving day offsets against now.
func (f *File) Materialize(now time.Time) []domain.Task {
	tasks := make([]domain.Task, 0, len(f.Tasks))
	for _, e := range f.Tasks {
		t := domain.Task{
			Title:       e.Title,
			Description: e.Description,
			Status:      domain.TaskStatus(e.Status),
			Assignees:   e.Assignees,
			StartDate:   resolveDate(e.StartDate, e.StartOffsetDays, now),
			EndDate:     resolveDate(e.EndDate, e.EndOffsetDays, now),
			Progress:    e.Progress,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if e.ID != "" {
			t.ID = uuid.MustParse(e.ID)
		}
		tasks = append(tasks, t)
	}
	return tasks
}

func resolveDate(abs *time.Time, offsetDays *int, now time.Time) *time.Time {
	switch {
	case abs != nil:
		d := *abs
		return &d
	case offsetDays != nil:
		d := now.AddDate(0, 0, *offsetDays)
		return &d
	default:
		return nil
	}
}

// Restorer accepts fully formed tasks.
type Restorer interface {
	Restore(ctx context.Context, task domain.Task) (domain.Task, error)
}

// Apply restores every task of f into dst in file order.
func Apply(ctx context.Context, dst Restorer, f *File, now time.Time) (int, error) {
	n := 0
	for _, t := range f.Materialize(now) {
		if _, err := dst.Restore(ctx, t); err != nil {
			return n, fmt.Errorf("seed.Apply: %q: %w", t.Title, err)
		}
		n++
	}
	return n, nil
}
