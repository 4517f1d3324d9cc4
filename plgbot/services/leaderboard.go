package services

import (
	"context"
	"fmt"
	"time"

	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

// Period is a leaderboard aggregation window.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod maps a raw argument to a Period, defaulting to week.
func ParsePeriod(raw string) Period {
	switch Period(raw) {
	case PeriodWeek, PeriodMonth, PeriodAll:
		return Period(raw)
	default:
		return PeriodWeek
	}
}

// WindowStart returns the inclusive lower bound of the aggregation window
// at instant now in loc. Week starts on the most recent Monday 00:00,
// month on the first of the month 00:00; all-time is the zero time.
func WindowStart(period Period, now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	switch period {
	case PeriodWeek:
		daysSinceMonday := (int(local.Weekday()) + 6) % 7
		return time.Date(local.Year(), local.Month(), local.Day()-daysSinceMonday, 0, 0, 0, 0, loc)
	case PeriodMonth:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	default:
		return time.Time{}
	}
}

// LeaderboardService ranks users by awarded XP over a time window. Totals
// come from the submission audit trail, never from users.xp_total, and only
// users with at least one submission in the window are ranked.
type LeaderboardService struct {
	submissionRepo repositories.SubmissionRepository
	loc            *time.Location
	now            func() time.Time
}

func NewLeaderboardService(submissionRepo repositories.SubmissionRepository, loc *time.Location) *LeaderboardService {
	return &LeaderboardService{
		submissionRepo: submissionRepo,
		loc:            loc,
		now:            time.Now,
	}
}

func (s *LeaderboardService) Top(ctx context.Context, period Period, limit int) ([]repositories.LeaderboardEntry, error) {
	since := WindowStart(period, s.now(), s.loc)
	entries, err := s.submissionRepo.Aggregate(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s leaderboard: %w", period, err)
	}
	return entries, nil
}
