package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tasktracker/models"
)

// ListOptions selects a page of tasks. A nil Completed matches every task.
type ListOptions struct {
	Skip      int
	Limit     int
	Completed *bool
}

// TaskPatch carries the fields of a partial update. Nil fields are left as
// they are.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// TaskRepository runs task operations directly against the store. Lookups of
// a missing id return a nil task and a nil error; store failures are returned
// unchanged.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Get returns the task with the given id, or nil if there is none.
func (r *TaskRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	return getTask(r.db.WithContext(ctx), id)
}

// List returns tasks newest first.
func (r *TaskRepository) List(ctx context.Context, opts ListOptions) ([]models.Task, error) {
	tasks := []models.Task{}
	if opts.Limit <= 0 {
		return tasks, nil
	}

	q := r.db.WithContext(ctx).Model(&models.Task{})
	if opts.Completed != nil {
		q = q.Where("completed = ?", *opts.Completed)
	}
	err := q.Order("created_at DESC").
		Order("id DESC").
		Offset(opts.Skip).
		Limit(opts.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Statistics counts all tasks and completed tasks in two separate queries.
// Under concurrent writes the two counts may come from different snapshots.
func (r *TaskRepository) Statistics(ctx context.Context) (models.Stats, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Task{}).Count(&total).Error; err != nil {
		return models.Stats{}, err
	}

	var completed int64
	if err := db.Model(&models.Task{}).Where("completed = ?", true).Count(&completed).Error; err != nil {
		return models.Stats{}, err
	}

	return models.NewStats(total, completed), nil
}

// Create inserts a new, not completed task.
func (r *TaskRepository) Create(ctx context.Context, title string) (*models.Task, error) {
	now := r.db.NowFunc()
	task := &models.Task{
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the non-nil fields of patch and always refreshes updated_at.
// It returns nil if the task does not exist.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch TaskPatch) (*models.Task, error) {
	changes := map[string]any{}
	if patch.Title != nil {
		changes["title"] = *patch.Title
	}
	if patch.Completed != nil {
		changes["completed"] = *patch.Completed
	}
	return r.mutate(ctx, id, changes)
}

// Complete marks the task completed. Completing a completed task succeeds and
// still refreshes updated_at.
func (r *TaskRepository) Complete(ctx context.Context, id int64) (*models.Task, error) {
	return r.mutate(ctx, id, map[string]any{"completed": true})
}

// Delete removes the task and reports whether it existed.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *TaskRepository) mutate(ctx context.Context, id int64, changes map[string]any) (*models.Task, error) {
	var updated *models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := getTask(tx, id)
		if err != nil || task == nil {
			return err
		}

		changes["updated_at"] = tx.NowFunc()
		if err := tx.Model(&models.Task{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}

		updated, err = getTask(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func getTask(db *gorm.DB, id int64) (*models.Task, error) {
	var task models.Task
	err := db.First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}
