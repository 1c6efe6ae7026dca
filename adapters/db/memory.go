package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kurnehuiz/TO-DO-TgBot/core"
)

// Memory is an in-process repository used by tests and the "memory"
// driver. Same contract as the SQL storage, nothing persisted.
type Memory struct {
	mu sync.RWMutex

	nextID int64
	tasks  map[int64]core.Task
}

func NewMemory() *Memory {
	return &Memory{
		nextID: 1,
		tasks:  make(map[int64]core.Task),
	}
}

func cloneTask(t core.Task) core.Task {
	out := t
	if t.Deadline != nil {
		d := *t.Deadline
		out.Deadline = &d
	}
	if t.Category != nil {
		c := *t.Category
		out.Category = &c
	}
	return out
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) CreateTask(_ context.Context, ownerID int64, text string, deadline *time.Time, category *string, priority core.Priority, repeat core.Repeat) (core.Task, error) {
	text = strings.TrimSpace(text)
	if ownerID <= 0 || text == "" {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	now := time.Now()
	t := core.Task{
		ID:        id,
		OwnerID:   ownerID,
		Text:      text,
		Deadline:  deadline,
		Category:  category,
		Priority:  priority,
		Repeat:    repeat,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tasks[id] = cloneTask(t)

	return t, nil
}

func (m *Memory) GetTask(_ context.Context, id int64) (core.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return core.Task{}, core.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (m *Memory) ListTasks(_ context.Context, f core.ListFilter) ([]core.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []core.Task
	for _, t := range m.tasks {
		if t.OwnerID != f.OwnerID {
			continue
		}
		if !f.IncludeDone && t.Done {
			continue
		}
		if f.Category != nil && (t.Category == nil || *t.Category != *f.Category) {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		out = append(out, cloneTask(t))
	}

	core.SortTasks(out)
	return out, nil
}

func (m *Memory) UpdateTask(_ context.Context, id int64, p core.TaskPatch) (core.Task, error) {
	if id <= 0 || p.Empty() {
		return core.Task{}, core.ErrTaskInvalidArgs
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return core.Task{}, core.ErrTaskNotFound
	}

	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return core.Task{}, core.ErrTaskInvalidArgs
		}
		t.Text = text
	}
	if p.ClearDeadline {
		t.Deadline = nil
	} else if p.Deadline != nil {
		d := *p.Deadline
		t.Deadline = &d
	}
	if p.ClearCategory {
		t.Category = nil
	} else if p.Category != nil {
		c := *p.Category
		t.Category = &c
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Repeat != nil {
		t.Repeat = *p.Repeat
	}
	t.UpdatedAt = time.Now()

	m.tasks[id] = cloneTask(t)
	return cloneTask(t), nil
}

func (m *Memory) DeleteTask(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return core.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) MarkDone(ctx context.Context, id int64) error {
	return m.setDone(id, true)
}

func (m *Memory) MarkUndone(ctx context.Context, id int64) error {
	return m.setDone(id, false)
}

func (m *Memory) setDone(id int64, done bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tasks[id]
	if !ok {
		return core.ErrTaskNotFound
	}
	t.Done = done
	t.UpdatedAt = time.Now()
	m.tasks[id] = t
	return nil
}

func (m *Memory) SearchTasks(_ context.Context, ownerID int64, keyword string) ([]core.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []core.Task
	for _, t := range m.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if !strings.Contains(t.Text, keyword) {
			continue
		}
		out = append(out, cloneTask(t))
	}

	core.SortTasks(out)
	return out, nil
}

func (m *Memory) ListCategories(_ context.Context, ownerID int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, t := range m.tasks {
		if t.OwnerID != ownerID || t.Category == nil || *t.Category == "" {
			continue
		}
		seen[*t.Category] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) UserStats(_ context.Context, ownerID int64) (core.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()

	var st core.Stats
	for _, t := range m.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		st.Total++
		if t.Done {
			st.Completed++
		}
		if t.Overdue(now) {
			st.Overdue++
		}
		if t.Priority == core.PriorityHigh && !t.Done {
			st.HighPriorityOpen++
		}
		if t.Category != nil {
			st.WithCategory++
		}
	}
	return st, nil
}

func (m *Memory) DueTasks(context.Context) ([]core.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []core.Task
	for _, t := range m.tasks {
		if t.Done || t.Deadline == nil {
			continue
		}
		out = append(out, cloneTask(t))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Deadline.Before(*out[j].Deadline)
	})
	return out, nil
}
