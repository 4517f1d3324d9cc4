package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

// AdminService covers the super-admin surface: promoting users to manager.
type AdminService struct {
	userRepo repositories.UserRepository
}

func NewAdminService(userRepo repositories.UserRepository) *AdminService {
	return &AdminService{userRepo: userRepo}
}

// Promote grants the manager flag to an existing user. Users who never
// contacted the bot cannot be promoted; the caller gets ErrUserNotFound.
func (s *AdminService) Promote(ctx context.Context, tgID int64) (*models.User, error) {
	user, err := s.userRepo.SetManager(ctx, tgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	slog.Info("User promoted to manager",
		slog.String("type", "sys"),
		slog.Int64("tg_id", tgID),
		slog.String("username", user.Username))
	return user, nil
}
