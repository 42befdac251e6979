package tasks

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/backend/go-services/internal/models"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrForbidden     = errors.New("access denied")
)

// Service applies the ownership and role rules on top of the repository:
// users see and edit their own tasks, admins see and edit everything.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// ListFor returns all tasks for admins and only the caller's tasks otherwise.
func (s *Service) ListFor(ctx context.Context, subjectID, role string) ([]*Task, error) {
	if role == models.RoleAdmin {
		return s.repo.List(ctx, "")
	}
	return s.repo.List(ctx, subjectID)
}

// Create stores a new task owned by subjectID.
func (s *Service) Create(ctx context.Context, title, description, subjectID string) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	t := &Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		UserID:      subjectID,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns the task when the caller owns it or is an admin.
func (s *Service) Get(ctx context.Context, id, subjectID, role string) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && t.UserID != subjectID {
		return nil, ErrForbidden
	}
	return t, nil
}

// Update applies the patch when the caller owns the task or is an admin.
func (s *Service) Update(ctx context.Context, id string, p Patch, subjectID, role string) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin && t.UserID != subjectID {
		return nil, ErrForbidden
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the task. Role gating (admin only) happens at the route
// level; the service only reports missing tasks.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
