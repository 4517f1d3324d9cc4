package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByTgID(ctx context.Context, tgID int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetManager(ctx context.Context, tgID int64) (*models.User, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepository) GetByTgID(ctx context.Context, tgID int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("tg_id = ?", tgID).
		Scan(ctx)

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("Database error when getting user",
				slog.String("type", "db"),
				slog.String("operation", "GetByTgID"),
				slog.Int64("tg_id", tgID),
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	return err
}

// SetManager flips the manager flag on an existing user. The target must
// have contacted the bot at least once.
func (r *userRepository) SetManager(ctx context.Context, tgID int64) (*models.User, error) {
	user, err := r.GetByTgID(ctx, tgID)
	if err != nil {
		return nil, err
	}
	if user.IsManager {
		return user, nil
	}
	user.IsManager = true
	if err := r.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
