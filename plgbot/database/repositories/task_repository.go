package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/uptrace/bun"
)

type TaskRepository interface {
	GetAll(ctx context.Context) ([]*models.Task, error)
	GetByCode(ctx context.Context, code string) (*models.Task, error)
	SearchByName(ctx context.Context, fragment string) ([]*models.Task, error)
	UpsertByCode(ctx context.Context, task *models.Task) error
	DeleteStale(ctx context.Context, keepCodes []string) (int64, error)
}

type taskRepository struct {
	db *bun.DB
}

func NewTaskRepository(db *bun.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetAll(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.NewSelect().
		Model(&tasks).
		Order("code ASC").
		Scan(ctx)
	return tasks, err
}

func (r *taskRepository) GetByCode(ctx context.Context, code string) (*models.Task, error) {
	task := new(models.Task)
	err := r.db.NewSelect().
		Model(task).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// SearchByName returns every task whose name contains the fragment,
// case-insensitively, in catalog insertion order.
func (r *taskRepository) SearchByName(ctx context.Context, fragment string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.NewSelect().
		Model(&tasks).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(fragment)+"%").
		Order("id ASC").
		Scan(ctx)
	return tasks, err
}

func (r *taskRepository) UpsertByCode(ctx context.Context, task *models.Task) error {
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(task).
		On("CONFLICT (code) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("xp = EXCLUDED.xp").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// DeleteStale removes tasks absent from the incoming catalog, but never a
// task that existing submissions still reference. Restrict semantics keep
// the audit trail's foreign keys intact across imports.
func (r *taskRepository) DeleteStale(ctx context.Context, keepCodes []string) (int64, error) {
	if len(keepCodes) == 0 {
		return 0, nil
	}
	res, err := r.db.NewDelete().
		Model((*models.Task)(nil)).
		Where("code NOT IN (?)", bun.In(keepCodes)).
		Where("id NOT IN (SELECT DISTINCT task_id FROM submissions)").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
