package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Submission is the immutable audit record of one XP award event. Rows are
// append-only; leaderboards aggregate over them rather than over the
// denormalized users.xp_total column.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`

	ID        int64  `bun:"id,pk,autoincrement"`
	UserID    int64  `bun:"user_id,notnull"`
	TaskID    int64  `bun:"task_id,notnull"`
	ManagerID *int64 `bun:"manager_id,nullzero"`
	Count     int    `bun:"count,notnull,default:1"`
	XPAwarded int64  `bun:"xp_awarded,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	User *User `bun:"rel:belongs-to,join:user_id=id"`
	Task *Task `bun:"rel:belongs-to,join:task_id=id"`
}
