package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Task is a catalog entry describing an awardable action and its XP value.
// The catalog is maintained by upsert on the code natural key.
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Code string `bun:"code,notnull,unique"`
	Name string `bun:"name,notnull"`
	XP   int64  `bun:"xp,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
