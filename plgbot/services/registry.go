package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

// UserRegistry upserts a user's identity on every inbound contact.
type UserRegistry struct {
	userRepo repositories.UserRepository
}

func NewUserRegistry(userRepo repositories.UserRepository) *UserRegistry {
	return &UserRegistry{userRepo: userRepo}
}

// Ensure looks a user up by tg id, creating a zero-XP non-manager row on
// first contact. Identity fields are refreshed only when a non-empty
// incoming value differs from the stored one, so repeat contacts from the
// same identity never produce redundant writes. Idempotent.
func (r *UserRegistry) Ensure(ctx context.Context, tgID int64, username, fullName string) (*models.User, error) {
	user, err := r.userRepo.GetByTgID(ctx, tgID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		user = &models.User{
			TgID:     tgID,
			Username: username,
			FullName: fullName,
		}
		if err := r.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		slog.Info("Registered new user",
			slog.String("type", "sys"),
			slog.Int64("tg_id", tgID),
			slog.String("username", username))
		return user, nil
	}

	changed := false
	if username != "" && user.Username != username {
		user.Username = username
		changed = true
	}
	if fullName != "" && user.FullName != fullName {
		user.FullName = fullName
		changed = true
	}
	if changed {
		if err := r.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}
