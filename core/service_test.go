package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kurnehuiz/TO-DO-TgBot/adapters/db"
	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

func newServiceWithMemory() (*db.Memory, *core.Service) {
	mem := db.NewMemory()
	return mem, core.NewService(mem)
}

func mustCreateTask(t *testing.T, svc *core.Service, ownerID int64, text string) core.Task {
	t.Helper()

	task, err := svc.CreateTask(context.Background(), ownerID, text, nil, nil, core.PriorityNone, core.RepeatNone)
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return task
}

func TestServiceCreateTask_RoundTrip(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()

	deadline, _ := core.ParseDeadline("2030-01-15 09:00")
	category := "Работа"

	created, err := svc.CreateTask(context.Background(), 42, "написать отчёт", &deadline, &category, core.PriorityHigh, core.RepeatWeekly)
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	got, err := svc.GetTask(context.Background(), 42, created.ID)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}

	if got.OwnerID != 42 || got.Text != "написать отчёт" {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.Done {
		t.Fatalf("new task must not be done")
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Fatalf("expected deadline %v, got %v", deadline, got.Deadline)
	}
	if got.Category == nil || *got.Category != category {
		t.Fatalf("expected category %q, got %v", category, got.Category)
	}
	if got.Priority != core.PriorityHigh || got.Repeat != core.RepeatWeekly {
		t.Fatalf("unexpected priority/repeat: %+v", got)
	}
}

func TestServiceCreateTask_EmptyText(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()

	_, err := svc.CreateTask(context.Background(), 1, "   ", nil, nil, core.PriorityNone, core.RepeatNone)
	if !errors.Is(err, core.ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}
}

func TestServiceGetTask_ForeignOwnerReadsAsNotFound(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()
	task := mustCreateTask(t, svc, 1, "чужая задача")

	_, err := svc.GetTask(context.Background(), 2, task.ID)
	if !errors.Is(err, core.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestServiceMarkDone_Idempotent(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()
	task := mustCreateTask(t, svc, 1, "задача")

	for i := 0; i < 2; i++ {
		if err := svc.MarkDone(context.Background(), 1, task.ID); err != nil {
			t.Fatalf("MarkDone call %d returned error: %v", i+1, err)
		}
		got, err := svc.GetTask(context.Background(), 1, task.ID)
		if err != nil {
			t.Fatalf("GetTask returned error: %v", err)
		}
		if !got.Done {
			t.Fatalf("task must be done after MarkDone")
		}
	}
}

func TestServiceMarkUndone_RoundTrip(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()
	task := mustCreateTask(t, svc, 1, "задача")

	if err := svc.MarkDone(context.Background(), 1, task.ID); err != nil {
		t.Fatalf("MarkDone returned error: %v", err)
	}
	if err := svc.MarkUndone(context.Background(), 1, task.ID); err != nil {
		t.Fatalf("MarkUndone returned error: %v", err)
	}

	got, err := svc.GetTask(context.Background(), 1, task.ID)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if got.Done {
		t.Fatalf("task must be unfinished after MarkUndone")
	}
}

func TestServiceDeleteTask_ForeignOwner(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()
	task := mustCreateTask(t, svc, 1, "задача")

	if err := svc.DeleteTask(context.Background(), 2, task.ID); !errors.Is(err, core.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	// владелец всё ещё видит задачу
	if _, err := svc.GetTask(context.Background(), 1, task.ID); err != nil {
		t.Fatalf("task must survive a foreign delete: %v", err)
	}
}

func TestServiceUpdateTask_SingleFieldKeepsOthers(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()

	deadline := time.Now().Add(24 * time.Hour).Truncate(time.Minute)
	category := "Учеба"
	created, err := svc.CreateTask(context.Background(), 1, "старый текст", &deadline, &category, core.PriorityLow, core.RepeatNone)
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	newText := "новый текст"
	updated, err := svc.UpdateTask(context.Background(), 1, created.ID, core.TaskPatch{Text: &newText})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}

	if updated.Text != newText {
		t.Fatalf("expected text %q, got %q", newText, updated.Text)
	}
	if updated.Deadline == nil || !updated.Deadline.Equal(deadline) {
		t.Fatalf("deadline must stay unchanged")
	}
	if updated.Category == nil || *updated.Category != category {
		t.Fatalf("category must stay unchanged")
	}
	if updated.Priority != core.PriorityLow {
		t.Fatalf("priority must stay unchanged")
	}
}

func TestServiceUpdateTask_EmptyPatch(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()
	task := mustCreateTask(t, svc, 1, "задача")

	_, err := svc.UpdateTask(context.Background(), 1, task.ID, core.TaskPatch{})
	if !errors.Is(err, core.ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}
}

func TestServiceUpdateTask_ClearDeadline(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()

	deadline := time.Now().Add(time.Hour)
	created, err := svc.CreateTask(context.Background(), 1, "задача", &deadline, nil, core.PriorityNone, core.RepeatNone)
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	updated, err := svc.UpdateTask(context.Background(), 1, created.ID, core.TaskPatch{ClearDeadline: true})
	if err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}
	if updated.Deadline != nil {
		t.Fatalf("deadline must be cleared, got %v", updated.Deadline)
	}
}

func TestServiceSearchTasks_EmptyKeyword(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithMemory()

	_, err := svc.SearchTasks(context.Background(), 1, "  ")
	if !errors.Is(err, core.ErrTaskInvalidArgs) {
		t.Fatalf("expected ErrTaskInvalidArgs, got %v", err)
	}
}
