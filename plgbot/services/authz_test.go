package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plgteam/plgbot/plgbot/database/models"
)

func TestIsAuthorizedManager(t *testing.T) {
	policy := NewManagerPolicy([]int64{100, 200}, 999)

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{name: "nil user", user: nil, want: false},
		{name: "plain user", user: &models.User{TgID: 42}, want: false},
		{name: "flagged manager", user: &models.User{TgID: 42, IsManager: true}, want: true},
		{name: "allow-listed", user: &models.User{TgID: 100}, want: true},
		{name: "super admin without flag", user: &models.User{TgID: 999}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsAuthorizedManager(tt.user))
		})
	}
}

func TestIsSuperAdmin(t *testing.T) {
	policy := NewManagerPolicy(nil, 999)
	assert.True(t, policy.IsSuperAdmin(999))
	assert.False(t, policy.IsSuperAdmin(100))

	// Unset super admin matches nobody, not tg id zero.
	unset := NewManagerPolicy(nil, 0)
	assert.False(t, unset.IsSuperAdmin(0))
}
