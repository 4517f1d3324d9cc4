package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/uptrace/bun"
)

// LeaderboardEntry is one aggregated leaderboard row: a user identity plus
// the sum of xp_awarded over the window.
type LeaderboardEntry struct {
	TgID     int64  `bun:"tg_id"`
	Username string `bun:"username"`
	FullName string `bun:"full_name"`
	TotalXP  int64  `bun:"total_xp"`
}

type SubmissionRepository interface {
	// Award atomically inserts the submission and bumps the target user's
	// running XP total in the same transaction.
	Award(ctx context.Context, sub *models.Submission) error
	Aggregate(ctx context.Context, since time.Time, limit int) ([]LeaderboardEntry, error)
}

type submissionRepository struct {
	db *bun.DB
}

func NewSubmissionRepository(db *bun.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Award(ctx context.Context, sub *models.Submission) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		sub.CreatedAt = time.Now()
		if _, err := tx.NewInsert().Model(sub).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert submission: %w", err)
		}

		// In-place increment: concurrent awards to the same user serialize
		// on the row instead of losing updates.
		res, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("xp_total = xp_total + ?", sub.XPAwarded).
			Set("updated_at = ?", time.Now()).
			Where("id = ?", sub.UserID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to increment xp_total: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("award target user %d does not exist", sub.UserID)
		}
		return nil
	})
}

// Aggregate sums awarded XP per user over submissions created at or after
// since (zero time means all-time), ordered by total descending with a
// tg_id tie-break for determinism. Only users with at least one submission
// in the window appear.
func (r *submissionRepository) Aggregate(ctx context.Context, since time.Time, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	q := r.db.NewSelect().
		TableExpr("submissions AS s").
		Join("JOIN users AS u ON u.id = s.user_id").
		ColumnExpr("u.tg_id AS tg_id").
		ColumnExpr("COALESCE(u.username, '') AS username").
		ColumnExpr("COALESCE(u.full_name, '') AS full_name").
		ColumnExpr("SUM(s.xp_awarded) AS total_xp").
		GroupExpr("u.id, u.tg_id, u.username, u.full_name").
		OrderExpr("total_xp DESC, u.tg_id ASC")

	if !since.IsZero() {
		q = q.Where("s.created_at >= ?", since)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx, &entries); err != nil {
		slog.Error("Failed to aggregate leaderboard",
			slog.String("type", "db"),
			slog.String("operation", "Aggregate"),
			slog.Time("since", since),
			slog.String("error", err.Error()))
		return nil, err
	}
	return entries, nil
}
