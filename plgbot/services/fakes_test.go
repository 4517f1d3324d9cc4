package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users   map[int64]*models.User
	nextID  int64
	creates int
	updates int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.TgID] = user
	r.creates++
	return nil
}

func (r *fakeUserRepo) GetByTgID(_ context.Context, tgID int64) (*models.User, error) {
	if u, ok := r.users[tgID]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.updates++
	r.users[user.TgID] = user
	return nil
}

func (r *fakeUserRepo) SetManager(ctx context.Context, tgID int64) (*models.User, error) {
	u, err := r.GetByTgID(ctx, tgID)
	if err != nil {
		return nil, err
	}
	u.IsManager = true
	return u, nil
}

type fakeTaskRepo struct {
	tasks      []*models.Task
	nextID     int64
	upserts    int
	staleKeeps []string
}

func (r *fakeTaskRepo) GetAll(_ context.Context) ([]*models.Task, error) {
	return r.tasks, nil
}

func (r *fakeTaskRepo) GetByCode(_ context.Context, code string) (*models.Task, error) {
	for _, t := range r.tasks {
		if strings.EqualFold(t.Code, code) {
			return t, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeTaskRepo) SearchByName(_ context.Context, fragment string) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range r.tasks {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(fragment)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) UpsertByCode(_ context.Context, task *models.Task) error {
	r.upserts++
	for _, t := range r.tasks {
		if t.Code == task.Code {
			t.Name = task.Name
			t.XP = task.XP
			return nil
		}
	}
	r.nextID++
	task.ID = r.nextID
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *fakeTaskRepo) DeleteStale(_ context.Context, keepCodes []string) (int64, error) {
	r.staleKeeps = keepCodes
	keep := make(map[string]struct{}, len(keepCodes))
	for _, c := range keepCodes {
		keep[c] = struct{}{}
	}
	var kept []*models.Task
	var removed int64
	for _, t := range r.tasks {
		if _, ok := keep[t.Code]; ok {
			kept = append(kept, t)
		} else {
			removed++
		}
	}
	r.tasks = kept
	return removed, nil
}

type fakeLevelRepo struct {
	levels  []*models.Level
	upserts int
}

func (r *fakeLevelRepo) GetAllOrdered(_ context.Context) ([]*models.Level, error) {
	return r.levels, nil
}

func (r *fakeLevelRepo) UpsertByNum(_ context.Context, level *models.Level) error {
	r.upserts++
	for i, l := range r.levels {
		if l.Num == level.Num {
			r.levels[i] = level
			return nil
		}
	}
	r.levels = append(r.levels, level)
	return nil
}

func (r *fakeLevelRepo) DeleteStale(_ context.Context, keepNums []int) (int64, error) {
	keep := make(map[int]struct{}, len(keepNums))
	for _, n := range keepNums {
		keep[n] = struct{}{}
	}
	var kept []*models.Level
	var removed int64
	for _, l := range r.levels {
		if _, ok := keep[l.Num]; ok {
			kept = append(kept, l)
		} else {
			removed++
		}
	}
	r.levels = kept
	return removed, nil
}

type fakeSubmissionRepo struct {
	awarded  []*models.Submission
	awardErr error
	entries  []repositories.LeaderboardEntry
	gotSince time.Time
	gotLimit int
}

func (r *fakeSubmissionRepo) Award(_ context.Context, sub *models.Submission) error {
	if r.awardErr != nil {
		return r.awardErr
	}
	sub.ID = int64(len(r.awarded) + 1)
	sub.CreatedAt = time.Now()
	r.awarded = append(r.awarded, sub)
	return nil
}

func (r *fakeSubmissionRepo) Aggregate(_ context.Context, since time.Time, limit int) ([]repositories.LeaderboardEntry, error) {
	r.gotSince = since
	r.gotLimit = limit
	return r.entries, nil
}
