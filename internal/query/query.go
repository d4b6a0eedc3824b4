// Package query derives read-only views from a snapshot of the task store.
// Every function works on the slice it is given and never touches the store.
package query

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/taskboard/internal/domain"
)

// DefaultUpcomingLimit is the number of deadlines shown on the dashboard.
const DefaultUpcomingLimit = 5

// GroupByStatus partitions tasks into the four status groups. Every status
// is present in the result, and each group keeps the input order.
func GroupByStatus(tasks []domain.Task) map[domain.TaskStatus][]domain.Task {
	groups := make(map[domain.TaskStatus][]domain.Task, len(domain.AllStatuses()))
	for _, s := range domain.AllStatuses() {
		groups[s] = make([]domain.Task, 0)
	}
	for _, t := range tasks {
		if _, ok := groups[t.Status]; !ok {
			continue
		}
		groups[t.Status] = append(groups[t.Status], t.Clone())
	}
	return groups
}

// AssigneeRow is one timeline row: an assignee and the tasks that list them.
type AssigneeRow struct {
	Assignee string        `json:"assignee"`
	Tasks    []domain.Task `json:"tasks"`
}

// GroupByAssignee returns one row per distinct assignee, in order of first
// appearance. A task with N assignees appears in N rows; a name repeated
// inside one task's list counts once.
func GroupByAssignee(tasks []domain.Task) []AssigneeRow {
	var rows []AssigneeRow
	index := make(map[string]int)

	for _, t := range tasks {
		seen := make(map[string]struct{}, len(t.Assignees))
		for _, a := range t.Assignees {
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}

			i, ok := index[a]
			if !ok {
				i = len(rows)
				index[a] = i
				rows = append(rows, AssigneeRow{Assignee: a})
			}
			rows[i].Tasks = append(rows[i].Tasks, t.Clone())
		}
	}
	if rows == nil {
		rows = []AssigneeRow{}
	}
	return rows
}

// UpcomingDeadlines returns tasks whose end date is strictly after now,
// earliest first, at most limit of them. Ties keep the input order. A limit
// of zero or less means DefaultUpcomingLimit.
func UpcomingDeadlines(tasks []domain.Task, now time.Time, limit int) []domain.Task {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	upcoming := make([]domain.Task, 0)
	for _, t := range tasks {
		if t.EndDate != nil && t.EndDate.After(now) {
			upcoming = append(upcoming, t.Clone())
		}
	}
	slices.SortStableFunc(upcoming, func(a, b domain.Task) int {
		return a.EndDate.Compare(*b.EndDate)
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// Stats aggregates the whole collection.
type Stats struct {
	Total    int                       `json:"total"`
	ByStatus map[domain.TaskStatus]int `json:"by_status"`
	// MeanProgress is the arithmetic mean of progress; 0 for no tasks.
	MeanProgress float64 `json:"mean_progress"`
	// AverageProgress is MeanProgress rounded to the nearest integer.
	AverageProgress int `json:"average_progress"`
}

// ComputeStats counts tasks per status and averages their progress.
func ComputeStats(tasks []domain.Task) Stats {
	st := Stats{
		Total:    len(tasks),
		ByStatus: make(map[domain.TaskStatus]int, len(domain.AllStatuses())),
	}
	for _, s := range domain.AllStatuses() {
		st.ByStatus[s] = 0
	}

	sum := 0
	for _, t := range tasks {
		st.ByStatus[t.Status]++
		sum += t.Progress
	}

	// An empty board averages to 0, never NaN.
	if st.Total > 0 {
		st.MeanProgress = float64(sum) / float64(st.Total)
	}
	st.AverageProgress = int(math.Round(st.MeanProgress))

	return st
}

// Column is one board column.
type Column struct {
	Status domain.TaskStatus `json:"status"`
	Tasks  []domain.Task     `json:"tasks"`
}

// Board is the kanban view: the four columns in fixed order, stamped with
// the store version it was derived from.
type Board struct {
	Version uint64   `json:"version"`
	Columns []Column `json:"columns"`
}

// BuildBoard groups a snapshot into columns.
func BuildBoard(tasks []domain.Task, version uint64) Board {
	groups := GroupByStatus(tasks)
	b := Board{Version: version, Columns: make([]Column, 0, len(groups))}
	for _, s := range domain.AllStatuses() {
		b.Columns = append(b.Columns, Column{Status: s, Tasks: groups[s]})
	}
	return b
}

// Column returns the tasks of one status, or nil for an unknown status.
func (b Board) Column(status domain.TaskStatus) []domain.Task {
	for _, c := range b.Columns {
		if c.Status == status {
			return c.Tasks
		}
	}
	return nil
}

// IndexOf returns the zero-based position of id inside a status column, or -1.
func (b Board) IndexOf(status domain.TaskStatus, id uuid.UUID) int {
	return slices.IndexFunc(b.Column(status), func(t domain.Task) bool { return t.ID == id })
}

// Dashboard is the summary view.
type Dashboard struct {
	Stats    Stats         `json:"stats"`
	Upcoming []domain.Task `json:"upcoming_deadlines"`
}

// BuildDashboard computes stats and the upcoming deadlines relative to now.
func BuildDashboard(tasks []domain.Task, now time.Time, limit int) Dashboard {
	return Dashboard{
		Stats:    ComputeStats(tasks),
		Upcoming: UpcomingDeadlines(tasks, now, limit),
	}
}
