package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskboard-api/internal/database"
)

var ErrNotFound = errors.New("task not found")

// Repository handles task persistence. Every query is keyed on the owner so
// a task belonging to another user is indistinguishable from a missing one.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// ListByOwner returns the owner's tasks, most recent first, optionally
// filtered by completed state.
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, completed *bool) ([]Task, error) {
	var dbTasks []database.Task

	query := r.db.NewSelect().
		Model(&dbTasks).
		Where("user_id = ?", ownerID).
		Order("created_at DESC")

	if completed != nil {
		query = query.Where("completed = ?", *completed)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(dbTasks))
	for i := range dbTasks {
		tasks = append(tasks, *mapDBTaskToModel(&dbTasks[i]))
	}

	return tasks, nil
}

// Create inserts a new task owned by ownerID with server-assigned timestamps.
func (r *Repository) Create(ctx context.Context, ownerID int64, title string, description *string) (*Task, error) {
	dbTask := &database.Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
	}

	_, err := r.db.NewInsert().
		Model(dbTask).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// UpdateOwned applies the given fields to a task in a single conditional
// statement keyed on (id, owner). Zero rows affected means the task does not
// exist or belongs to someone else; both surface as ErrNotFound.
func (r *Repository) UpdateOwned(ctx context.Context, taskID, ownerID int64, fields UpdateFields) (*Task, error) {
	dbTask := new(database.Task)

	query := r.db.NewUpdate().
		Model(dbTask).
		Set("updated_at = NOW()").
		Where("id = ?", taskID).
		Where("user_id = ?", ownerID).
		Returning("*")

	if fields.Title != nil {
		query = query.Set("title = ?", *fields.Title)
	}
	if fields.Description != nil {
		query = query.Set("description = ?", *fields.Description)
	}
	if fields.Completed != nil {
		query = query.Set("completed = ?", *fields.Completed)
	}

	result, err := query.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// DeleteOwned removes a task in a single conditional statement keyed on
// (id, owner). Deleting a missing or foreign task yields ErrNotFound.
func (r *Repository) DeleteOwned(ctx context.Context, taskID, ownerID int64) error {
	result, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", taskID).
		Where("user_id = ?", ownerID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBTaskToModel converts database model to domain model
func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:          dbt.ID,
		UserID:      dbt.UserID,
		Title:       dbt.Title,
		Description: dbt.Description,
		Completed:   dbt.Completed,
		CreatedAt:   dbt.CreatedAt,
		UpdatedAt:   dbt.UpdatedAt,
	}
}
