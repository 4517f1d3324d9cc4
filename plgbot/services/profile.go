package services

import (
	"context"
	"fmt"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

// Profile describes where a user sits on the level ladder. Level is nil
// below the first rung, NextLevel is nil past the top rung, and Progress
// is nil whenever NextLevel is nil.
type Profile struct {
	User      *models.User
	Level     *models.Level
	NextLevel *models.Level
	Progress  *float64
}

// ComputeProfile derives the current level, the next level and the
// fractional progress toward it from a user's XP total and the ladder
// sorted ascending by xp_required. Pure function; re-derivable from stored
// state at any time.
func ComputeProfile(user *models.User, ladder []*models.Level) Profile {
	var current, next *models.Level
	for _, lev := range ladder {
		if user.XPTotal >= lev.XPRequired {
			current = lev
		} else if next == nil {
			next = lev
		}
	}

	var progress *float64
	switch {
	case current != nil && next != nil:
		span := next.XPRequired - current.XPRequired
		if span < 1 {
			span = 1
		}
		p := float64(user.XPTotal-current.XPRequired) / float64(span)
		progress = &p
	case current == nil && next != nil:
		den := next.XPRequired
		if den < 1 {
			den = 1
		}
		p := float64(user.XPTotal) / float64(den)
		progress = &p
	}

	return Profile{User: user, Level: current, NextLevel: next, Progress: progress}
}

// ProfileService loads the ladder and computes profiles on demand. No
// progress is ever persisted; everything derives from xp_total.
type ProfileService struct {
	levelRepo repositories.LevelRepository
}

func NewProfileService(levelRepo repositories.LevelRepository) *ProfileService {
	return &ProfileService{levelRepo: levelRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, user *models.User) (Profile, error) {
	ladder, err := s.levelRepo.GetAllOrdered(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to load level ladder: %w", err)
	}
	return ComputeProfile(user, ladder), nil
}
