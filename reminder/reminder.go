// Package reminder runs the background deadline scan: due tasks get a
// notification, are marked done, and recurring tasks are rolled
// forward to their next deadline.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

type Scheduler struct {
	log  *slog.Logger
	db   core.DB
	sink core.Sink

	interval time.Duration // обычный интервал между сканами
	backoff  time.Duration // пауза после ошибки скана

	now func() time.Time
}

func New(log *slog.Logger, db core.DB, sink core.Sink, interval, backoff time.Duration) *Scheduler {
	return &Scheduler{
		log:      log,
		db:       db,
		sink:     sink,
		interval: interval,
		backoff:  backoff,
		now:      time.Now,
	}
}

// Run loops until ctx is cancelled. A failed scan extends the sleep to
// the backoff interval; the loop itself never dies.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("запущен цикл напоминаний", "interval", s.interval)

	for {
		sleep := s.interval
		if err := s.Scan(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Error("scan failed", "error", err, "backoff", s.backoff)
			sleep = s.backoff
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
	}
}

// Scan runs one pass over all unfinished tasks with a deadline. A
// single task's failure logs and moves on; only a failed fetch fails
// the scan.
func (s *Scheduler) Scan(ctx context.Context) error {
	tasks, err := s.db.DueTasks(ctx)
	if err != nil {
		return fmt.Errorf("fetch due tasks: %w", err)
	}

	now := s.now()
	for _, t := range tasks {
		if t.Deadline == nil || now.Before(*t.Deadline) {
			continue
		}
		s.fire(ctx, t)
	}
	return nil
}

func (s *Scheduler) fire(ctx context.Context, t core.Task) {
	text := fmt.Sprintf(
		"⏰ <b>Дедлайн!</b>\n\nЗадача: %s\nСрок: %s\n\nЗадача автоматически помечена как выполненная.",
		t.Text, core.FormatDeadline(*t.Deadline))

	// delivery failure does not block mark-done: a flaky transport
	// must not re-fire the same deadline every scan
	if err := s.sink.Send(ctx, t.OwnerID, text, core.Keyboard{}); err != nil {
		s.log.Error("notify failed", "task_id", t.ID, "owner_id", t.OwnerID, "error", err)
	} else {
		s.log.Info("отправлено напоминание", "task_id", t.ID, "owner_id", t.OwnerID)
	}

	if err := s.db.MarkDone(ctx, t.ID); err != nil {
		s.log.Error("mark done failed", "task_id", t.ID, "error", err)
		return
	}

	if offset, ok := t.Repeat.Offset(); ok {
		s.rollover(ctx, t, offset)
	}
}

// rollover creates the next occurrence of a recurring task. Category
// and priority are not carried forward.
func (s *Scheduler) rollover(ctx context.Context, t core.Task, offset time.Duration) {
	next := t.Deadline.Add(offset)

	nt, err := s.db.CreateTask(ctx, t.OwnerID, t.Text, &next, nil, core.PriorityNone, t.Repeat)
	if err != nil {
		s.log.Error("rollover failed", "task_id", t.ID, "error", err)
		return
	}
	s.log.Info("создана повторяющаяся задача", "task_id", nt.ID, "owner_id", t.OwnerID, "deadline", next)
}
