package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

func TestMemoryListTasks_ExcludesDoneByDefault(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	ctx := context.Background()

	open, _ := mem.CreateTask(ctx, 1, "открытая", nil, nil, core.PriorityNone, core.RepeatNone)
	done, _ := mem.CreateTask(ctx, 1, "закрытая", nil, nil, core.PriorityNone, core.RepeatNone)
	if err := mem.MarkDone(ctx, done.ID); err != nil {
		t.Fatalf("MarkDone returned error: %v", err)
	}

	tasks, err := mem.ListTasks(ctx, core.ListFilter{OwnerID: 1})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != open.ID {
		t.Fatalf("expected only the open task, got %+v", tasks)
	}

	all, err := mem.ListTasks(ctx, core.ListFilter{OwnerID: 1, IncludeDone: true})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both tasks with IncludeDone, got %d", len(all))
	}
}

func TestMemoryListTasks_ScopedByOwner(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	ctx := context.Background()

	_, _ = mem.CreateTask(ctx, 1, "моя", nil, nil, core.PriorityNone, core.RepeatNone)
	_, _ = mem.CreateTask(ctx, 2, "чужая", nil, nil, core.PriorityNone, core.RepeatNone)

	tasks, err := mem.ListTasks(ctx, core.ListFilter{OwnerID: 1, IncludeDone: true})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "моя" {
		t.Fatalf("listing must be scoped by owner, got %+v", tasks)
	}
}

func TestMemoryListTasks_Ordering(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	ctx := context.Background()

	early := time.Date(2030, 1, 1, 9, 0, 0, 0, time.Local)
	late := time.Date(2030, 2, 1, 9, 0, 0, 0, time.Local)

	noDeadlineHigh, _ := mem.CreateTask(ctx, 1, "high без дедлайна", nil, nil, core.PriorityHigh, core.RepeatNone)
	lateHigh, _ := mem.CreateTask(ctx, 1, "high поздний", &late, nil, core.PriorityHigh, core.RepeatNone)
	earlyHigh, _ := mem.CreateTask(ctx, 1, "high ранний", &early, nil, core.PriorityHigh, core.RepeatNone)
	earlyNone, _ := mem.CreateTask(ctx, 1, "без приоритета ранний", &early, nil, core.PriorityNone, core.RepeatNone)

	tasks, err := mem.ListTasks(ctx, core.ListFilter{OwnerID: 1, IncludeDone: true})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}

	want := []int64{earlyHigh.ID, lateHigh.ID, noDeadlineHigh.ID, earlyNone.ID}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("position %d: expected task %d, got %d", i, id, tasks[i].ID)
		}
	}
}

func TestMemorySearchTasks_SubstringScoped(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	ctx := context.Background()

	match, _ := mem.CreateTask(ctx, 1, "купить молоко", nil, nil, core.PriorityNone, core.RepeatNone)
	_, _ = mem.CreateTask(ctx, 1, "погулять", nil, nil, core.PriorityNone, core.RepeatNone)
	_, _ = mem.CreateTask(ctx, 2, "купить хлеб", nil, nil, core.PriorityNone, core.RepeatNone)

	tasks, err := mem.SearchTasks(ctx, 1, "купить")
	if err != nil {
		t.Fatalf("SearchTasks returned error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != match.ID {
		t.Fatalf("unexpected search result: %+v", tasks)
	}
}

func TestMemoryListCategories_DistinctNonEmpty(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	ctx := context.Background()

	work := "Работа"
	home := "Дом"
	empty := ""
	_, _ = mem.CreateTask(ctx, 1, "a", nil, &work, core.PriorityNone, core.RepeatNone)
	_, _ = mem.CreateTask(ctx, 1, "b", nil, &work, core.PriorityNone, core.RepeatNone)
	_, _ = mem.CreateTask(ctx, 1, "c", nil, &home, core.PriorityNone, core.RepeatNone)
	_, _ = mem.CreateTask(ctx, 1, "d", nil, &empty, core.PriorityNone, core.RepeatNone)
	_, _ = mem.CreateTask(ctx, 1, "e", nil, nil, core.PriorityNone, core.RepeatNone)

	categories, err := mem.ListCategories(ctx, 1)
	if err != nil {
		t.Fatalf("ListCategories returned error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 distinct categories, got %v", categories)
	}
	if categories[0] != "Дом" || categories[1] != "Работа" {
		t.Fatalf("unexpected categories: %v", categories)
	}
}

func TestMemoryUserStats(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	cat := "Работа"

	_, _ = mem.CreateTask(ctx, 1, "просроченная", &past, nil, core.PriorityNone, core.RepeatNone)
	_, _ = mem.CreateTask(ctx, 1, "важная", &future, &cat, core.PriorityHigh, core.RepeatNone)
	done, _ := mem.CreateTask(ctx, 1, "сделанная", nil, nil, core.PriorityNone, core.RepeatNone)
	_ = mem.MarkDone(ctx, done.ID)

	st, err := mem.UserStats(ctx, 1)
	if err != nil {
		t.Fatalf("UserStats returned error: %v", err)
	}

	want := core.Stats{Total: 3, Completed: 1, Overdue: 1, HighPriorityOpen: 1, WithCategory: 1}
	if st != want {
		t.Fatalf("expected %+v, got %+v", want, st)
	}
}

func TestMemoryDueTasks_OrderedAcrossOwners(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	ctx := context.Background()

	first := time.Now().Add(-2 * time.Hour)
	second := time.Now().Add(-time.Hour)

	b, _ := mem.CreateTask(ctx, 2, "вторая", &second, nil, core.PriorityNone, core.RepeatNone)
	a, _ := mem.CreateTask(ctx, 1, "первая", &first, nil, core.PriorityNone, core.RepeatNone)
	noDeadline, _ := mem.CreateTask(ctx, 1, "без дедлайна", nil, nil, core.PriorityNone, core.RepeatNone)
	finished, _ := mem.CreateTask(ctx, 1, "готовая", &first, nil, core.PriorityNone, core.RepeatNone)
	_ = mem.MarkDone(ctx, finished.ID)

	due, err := mem.DueTasks(ctx)
	if err != nil {
		t.Fatalf("DueTasks returned error: %v", err)
	}
	if len(due) != 2 || due[0].ID != a.ID || due[1].ID != b.ID {
		t.Fatalf("unexpected due tasks: %+v", due)
	}
	_ = noDeadline
}

func TestMemoryDeleteTask_NotFound(t *testing.T) {
	t.Parallel()

	mem := NewMemory()

	if err := mem.DeleteTask(context.Background(), 99); !errors.Is(err, core.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}
