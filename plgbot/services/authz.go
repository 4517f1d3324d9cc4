package services

import "github.com/plgteam/plgbot/plgbot/database/models"

// ManagerPolicy is the single capability check for manager-only actions:
// a user is authorized when their stored flag is set or their tg id is on
// the configured allow-list. The super admin is always on the list.
type ManagerPolicy struct {
	allowed      map[int64]struct{}
	superAdminID int64
}

func NewManagerPolicy(managerIDs []int64, superAdminID int64) ManagerPolicy {
	allowed := make(map[int64]struct{}, len(managerIDs)+1)
	for _, id := range managerIDs {
		allowed[id] = struct{}{}
	}
	if superAdminID != 0 {
		allowed[superAdminID] = struct{}{}
	}
	return ManagerPolicy{allowed: allowed, superAdminID: superAdminID}
}

func (p ManagerPolicy) IsAuthorizedManager(u *models.User) bool {
	if u == nil {
		return false
	}
	if u.IsManager {
		return true
	}
	_, ok := p.allowed[u.TgID]
	return ok
}

func (p ManagerPolicy) IsSuperAdmin(tgID int64) bool {
	return p.superAdminID != 0 && tgID == p.superAdminID
}
