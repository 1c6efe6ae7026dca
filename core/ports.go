package core

import (
	"context"
	"time"
)

// DB is the task repository port. Mutations by raw id do not check
// ownership: callers re-check before mutating.
type DB interface {
	Ping(ctx context.Context) error

	CreateTask(ctx context.Context, ownerID int64, text string, deadline *time.Time, category *string, priority Priority, repeat Repeat) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	ListTasks(ctx context.Context, f ListFilter) ([]Task, error)
	UpdateTask(ctx context.Context, id int64, p TaskPatch) (Task, error)
	DeleteTask(ctx context.Context, id int64) error
	MarkDone(ctx context.Context, id int64) error
	MarkUndone(ctx context.Context, id int64) error

	SearchTasks(ctx context.Context, ownerID int64, keyword string) ([]Task, error)
	ListCategories(ctx context.Context, ownerID int64) ([]string, error)
	UserStats(ctx context.Context, ownerID int64) (Stats, error)

	// DueTasks returns unfinished tasks with a deadline across all
	// owners, ordered by deadline ascending.
	DueTasks(ctx context.Context) ([]Task, error)
}

type Button struct {
	Text string
	// Data is a callback payload; empty for plain reply buttons.
	Data string
}

// Keyboard is an abstract menu descriptor handed to the transport.
type Keyboard struct {
	Buttons [][]Button
	Inline  bool
	OneTime bool
}

// Sink delivers outbound messages through the chat transport.
type Sink interface {
	Send(ctx context.Context, ownerID int64, text string, kb Keyboard) error
}
