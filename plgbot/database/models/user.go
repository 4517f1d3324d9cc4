package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	TgID      int64  `bun:"tg_id,notnull,unique"`
	Username  string `bun:"username,nullzero"`
	FullName  string `bun:"full_name,nullzero"`
	IsManager bool   `bun:"is_manager,notnull,default:false"`
	XPTotal   int64  `bun:"xp_total,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// DisplayName picks the most human-friendly identity field available.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return strconv.FormatInt(u.TgID, 10)
}
