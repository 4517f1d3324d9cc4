package repositories

import (
	"context"
	"time"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/uptrace/bun"
)

type LevelRepository interface {
	GetAllOrdered(ctx context.Context) ([]*models.Level, error)
	UpsertByNum(ctx context.Context, level *models.Level) error
	DeleteStale(ctx context.Context, keepNums []int) (int64, error)
}

type levelRepository struct {
	db *bun.DB
}

func NewLevelRepository(db *bun.DB) LevelRepository {
	return &levelRepository{db: db}
}

// GetAllOrdered returns the full ladder ascending by xp_required, the
// order the profile computation expects.
func (r *levelRepository) GetAllOrdered(ctx context.Context) ([]*models.Level, error) {
	var levels []*models.Level
	err := r.db.NewSelect().
		Model(&levels).
		Order("xp_required ASC").
		Scan(ctx)
	return levels, err
}

func (r *levelRepository) UpsertByNum(ctx context.Context, level *models.Level) error {
	level.CreatedAt = time.Now()
	level.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(level).
		On("CONFLICT (num) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("xp_required = EXCLUDED.xp_required").
		Set("reward = EXCLUDED.reward").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *levelRepository) DeleteStale(ctx context.Context, keepNums []int) (int64, error) {
	if len(keepNums) == 0 {
		return 0, nil
	}
	res, err := r.db.NewDelete().
		Model((*models.Level)(nil)).
		Where("num NOT IN (?)", bun.In(keepNums)).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
