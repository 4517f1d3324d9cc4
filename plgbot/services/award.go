package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

// AwardService records completed tasks. It performs no authorization:
// callers gate access before invoking Award.
type AwardService struct {
	submissionRepo repositories.SubmissionRepository
}

func NewAwardService(submissionRepo repositories.SubmissionRepository) *AwardService {
	return &AwardService{submissionRepo: submissionRepo}
}

// Award inserts an immutable submission and increments the target's XP
// total in one transaction. A non-positive count is clamped to 1 rather
// than rejected. The target's in-memory XPTotal is bumped to match what
// was committed.
func (s *AwardService) Award(ctx context.Context, target *models.User, task *models.Task, count int, manager *models.User) (*models.Submission, error) {
	if count < 1 {
		count = 1
	}
	xpAwarded := task.XP * int64(count)

	sub := &models.Submission{
		UserID:    target.ID,
		TaskID:    task.ID,
		Count:     count,
		XPAwarded: xpAwarded,
	}
	if manager != nil {
		sub.ManagerID = &manager.ID
	}

	if err := s.submissionRepo.Award(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to record award: %w", err)
	}
	target.XPTotal += xpAwarded

	managerTg := int64(0)
	if manager != nil {
		managerTg = manager.TgID
	}
	slog.Info("XP awarded",
		slog.String("type", "sys"),
		slog.Int64("target_tg_id", target.TgID),
		slog.String("task_code", task.Code),
		slog.Int("count", count),
		slog.Int64("xp_awarded", xpAwarded),
		slog.Int64("manager_tg_id", managerTg))

	return sub, nil
}
