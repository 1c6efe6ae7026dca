package core

import (
	"context"
	"strings"
	"time"
)

// Service runs validation and ownership checks in front of the
// repository. The repository itself addresses tasks by raw id, so the
// ownership re-check happens here, at the call site.
type Service struct {
	db DB
}

func NewService(db DB) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) CreateTask(ctx context.Context, ownerID int64, text string, deadline *time.Time, category *string, priority Priority, repeat Repeat) (Task, error) {
	if ownerID <= 0 || strings.TrimSpace(text) == "" {
		return Task{}, ErrTaskInvalidArgs
	}
	return s.db.CreateTask(ctx, ownerID, strings.TrimSpace(text), deadline, category, priority, repeat)
}

// GetTask returns the task only when it belongs to ownerID; a foreign
// task reads as not found.
func (s *Service) GetTask(ctx context.Context, ownerID, id int64) (Task, error) {
	if ownerID <= 0 || id <= 0 {
		return Task{}, ErrTaskInvalidArgs
	}

	t, err := s.db.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t.OwnerID != ownerID {
		return Task{}, ErrTaskNotFound
	}
	return t, nil
}

func (s *Service) ListTasks(ctx context.Context, f ListFilter) ([]Task, error) {
	if f.OwnerID <= 0 {
		return nil, ErrTaskInvalidArgs
	}
	return s.db.ListTasks(ctx, f)
}

func (s *Service) UpdateTask(ctx context.Context, ownerID, id int64, p TaskPatch) (Task, error) {
	if p.Empty() {
		return Task{}, ErrTaskInvalidArgs
	}
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return Task{}, ErrTaskInvalidArgs
	}

	if _, err := s.GetTask(ctx, ownerID, id); err != nil {
		return Task{}, err
	}
	return s.db.UpdateTask(ctx, id, p)
}

func (s *Service) DeleteTask(ctx context.Context, ownerID, id int64) error {
	if _, err := s.GetTask(ctx, ownerID, id); err != nil {
		return err
	}
	return s.db.DeleteTask(ctx, id)
}

func (s *Service) MarkDone(ctx context.Context, ownerID, id int64) error {
	if _, err := s.GetTask(ctx, ownerID, id); err != nil {
		return err
	}
	return s.db.MarkDone(ctx, id)
}

func (s *Service) MarkUndone(ctx context.Context, ownerID, id int64) error {
	if _, err := s.GetTask(ctx, ownerID, id); err != nil {
		return err
	}
	return s.db.MarkUndone(ctx, id)
}

func (s *Service) SearchTasks(ctx context.Context, ownerID int64, keyword string) ([]Task, error) {
	if ownerID <= 0 || strings.TrimSpace(keyword) == "" {
		return nil, ErrTaskInvalidArgs
	}
	return s.db.SearchTasks(ctx, ownerID, keyword)
}

func (s *Service) ListCategories(ctx context.Context, ownerID int64) ([]string, error) {
	if ownerID <= 0 {
		return nil, ErrTaskInvalidArgs
	}
	return s.db.ListCategories(ctx, ownerID)
}

func (s *Service) UserStats(ctx context.Context, ownerID int64) (Stats, error) {
	if ownerID <= 0 {
		return Stats{}, ErrTaskInvalidArgs
	}
	return s.db.UserStats(ctx, ownerID)
}
