package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrTitleRequired = errors.New("title is required")

// Store defines the persistence operations the task service needs.
type Store interface {
	ListByOwner(ctx context.Context, ownerID int64, completed *bool) ([]Task, error)
	Create(ctx context.Context, ownerID int64, title string, description *string) (*Task, error)
	UpdateOwned(ctx context.Context, taskID, ownerID int64, fields UpdateFields) (*Task, error)
	DeleteOwned(ctx context.Context, taskID, ownerID int64) error
}

// Service implements ownership-scoped task operations. The owner ID always
// comes from the authenticated identity, never from the request body.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all tasks owned by ownerID, newest first. A user with no
// tasks gets an empty slice, not an error.
func (s *Service) List(ctx context.Context, ownerID int64, completed *bool) ([]Task, error) {
	tasks, err := s.store.ListByOwner(ctx, ownerID, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create persists a new task owned by ownerID. The title must be non-empty
// after trimming; new tasks start out not completed.
func (s *Service) Create(ctx context.Context, ownerID int64, title string, description *string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	created, err := s.store.Create(ctx, ownerID, title, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// Update applies only the fields present in fields; the rest are left
// unchanged. A task that does not exist and a task owned by another user
// both yield ErrNotFound.
func (s *Service) Update(ctx context.Context, taskID, ownerID int64, fields UpdateFields) (*Task, error) {
	updated, err := s.store.UpdateOwned(ctx, taskID, ownerID, fields)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

// Delete removes the task. Repeated deletes and deletes of foreign tasks
// yield ErrNotFound.
func (s *Service) Delete(ctx context.Context, taskID, ownerID int64) error {
	if err := s.store.DeleteOwned(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
