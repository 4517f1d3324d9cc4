package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Level is a ladder rung unlocked once cumulative XP reaches XPRequired.
// The ladder must be strictly increasing in XPRequired.
type Level struct {
	bun.BaseModel `bun:"table:levels,alias:l"`

	Num        int    `bun:"num,pk"`
	Title      string `bun:"title,notnull"`
	XPRequired int64  `bun:"xp_required,notnull"`
	Reward     string `bun:"reward,nullzero"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
