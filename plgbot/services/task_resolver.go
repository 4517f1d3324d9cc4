package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

const resolverCacheSize = 256

// TaskResolver maps a manager-supplied query string to a task record.
// Exact code match is the authoritative path; a case-insensitive substring
// match on the name is the fallback. When several names contain the
// fragment, fuzzy ranking picks the closest one so the answer is stable
// and not just whatever the catalog happened to list first.
type TaskResolver struct {
	taskRepo repositories.TaskRepository
	cache    *lru.Cache
}

func NewTaskResolver(taskRepo repositories.TaskRepository) *TaskResolver {
	cache, _ := lru.New(resolverCacheSize)
	return &TaskResolver{taskRepo: taskRepo, cache: cache}
}

type taskNames []*models.Task

func (t taskNames) Len() int            { return len(t) }
func (t taskNames) String(i int) string { return strings.ToLower(t[i].Name) }

func (r *TaskResolver) Resolve(ctx context.Context, query string) (*models.Task, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, ErrTaskNotFound
	}

	if cached, ok := r.cache.Get(normalized); ok {
		return cached.(*models.Task), nil
	}

	task, err := r.taskRepo.GetByCode(ctx, normalized)
	if err == nil {
		r.cache.Add(normalized, task)
		return task, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	matches, err := r.taskRepo.SearchByName(ctx, normalized)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrTaskNotFound
	}

	task = matches[0]
	if len(matches) > 1 {
		if ranked := fuzzy.FindFrom(normalized, taskNames(matches)); len(ranked) > 0 {
			task = matches[ranked[0].Index]
		}
		slog.Debug("Ambiguous task query resolved",
			slog.String("type", "sys"),
			slog.String("query", normalized),
			slog.Int("candidates", len(matches)),
			slog.String("picked", task.Code))
	}

	r.cache.Add(normalized, task)
	return task, nil
}

// Invalidate flushes memoized resolutions. Called after a catalog import
// so renamed or re-coded tasks cannot be served from stale cache entries.
func (r *TaskResolver) Invalidate() {
	r.cache.Purge()
}
