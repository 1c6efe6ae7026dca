package core

import (
	"context"
	"sort"
)

// View is a read-side filter over a user's full task list.
type View func(Task) bool

func ViewAll(Task) bool            { return true }
func ViewCompleted(t Task) bool    { return t.Done }
func ViewIncomplete(t Task) bool   { return !t.Done }
func ViewWithDeadline(t Task) bool { return !t.Done && t.Deadline != nil }
func ViewHighPriority(t Task) bool { return !t.Done && t.Priority == PriorityHigh }

// Query composes read-only views and aggregates over the repository.
// It keeps no state of its own.
type Query struct {
	db DB
}

func NewQuery(db DB) *Query {
	return &Query{db: db}
}

// Tasks lists all of the owner's tasks and applies the view in
// process, ordering preserved from the repository.
func (q *Query) Tasks(ctx context.Context, ownerID int64, view View) ([]Task, error) {
	if ownerID <= 0 {
		return nil, ErrTaskInvalidArgs
	}

	all, err := q.db.ListTasks(ctx, ListFilter{OwnerID: ownerID, IncludeDone: true})
	if err != nil {
		return nil, err
	}

	out := make([]Task, 0, len(all))
	for _, t := range all {
		if view(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (q *Query) Stats(ctx context.Context, ownerID int64) (Stats, error) {
	if ownerID <= 0 {
		return Stats{}, ErrTaskInvalidArgs
	}
	return q.db.UserStats(ctx, ownerID)
}

// CompletionRate is the percentage of completed tasks, 0 for an empty
// list.
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total) * 100
}

// SortTasks orders tasks by priority rank, then deadline ascending;
// tasks without a deadline go last within their priority band. Used by
// repository implementations that cannot push the ordering into SQL.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra < rb
		}
		switch {
		case a.Deadline == nil && b.Deadline == nil:
			return a.ID < b.ID
		case a.Deadline == nil:
			return false
		case b.Deadline == nil:
			return true
		default:
			if a.Deadline.Equal(*b.Deadline) {
				return a.ID < b.ID
			}
			return a.Deadline.Before(*b.Deadline)
		}
	})
}
