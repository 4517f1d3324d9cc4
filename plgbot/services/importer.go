package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/plgteam/plgbot/plgbot/database/models"
	"github.com/plgteam/plgbot/plgbot/database/repositories"
)

// ImportCounts is the per-entity diff of one catalog import.
type ImportCounts struct {
	Created int
	Updated int
	Kept    int
	Removed int
}

// ImportResult reports what an explicit catalog import did, including
// whether each entity came from a spreadsheet or the built-in defaults.
type ImportResult struct {
	Tasks        ImportCounts
	Levels       ImportCounts
	TasksSource  string
	LevelsSource string
}

// CatalogFetcher downloads a remote workbook to a local file before
// import. Implemented by SpacesService; nil means local files only.
type CatalogFetcher interface {
	FetchToFile(ctx context.Context, key, dest string) error
}

// CatalogImporter replaces the task and level catalogs from spreadsheet
// sources. Unlike a wholesale delete-and-reinsert, rows are upserted by
// natural key (task code, level num) and stale rows are removed only when
// nothing references them, so submission foreign keys survive re-imports.
type CatalogImporter struct {
	taskRepo   repositories.TaskRepository
	levelRepo  repositories.LevelRepository
	resolver   *TaskResolver
	taskFiles  []string
	levelFiles []string
	fetcher    CatalogFetcher
	remoteKeys []string
}

func NewCatalogImporter(
	taskRepo repositories.TaskRepository,
	levelRepo repositories.LevelRepository,
	resolver *TaskResolver,
	taskFiles, levelFiles []string,
) *CatalogImporter {
	return &CatalogImporter{
		taskRepo:   taskRepo,
		levelRepo:  levelRepo,
		resolver:   resolver,
		taskFiles:  taskFiles,
		levelFiles: levelFiles,
	}
}

// WithFetcher adds a remote source: each key is downloaded into a temp
// directory and the local copies are tried before the configured paths.
func (im *CatalogImporter) WithFetcher(fetcher CatalogFetcher, keys []string) *CatalogImporter {
	im.fetcher = fetcher
	im.remoteKeys = keys
	return im
}

func (im *CatalogImporter) Import(ctx context.Context) (*ImportResult, error) {
	var fetched []string
	if im.fetcher != nil {
		fetched = im.fetchRemote(ctx)
	}
	// Each candidate list gets its own backing array; appending both onto
	// fetched would let the second append clobber the first through the
	// shared capacity.
	taskFiles := append(append([]string(nil), fetched...), im.taskFiles...)
	levelFiles := append(append([]string(nil), fetched...), im.levelFiles...)

	result := &ImportResult{TasksSource: "defaults", LevelsSource: "defaults"}

	tasks := defaultCatalogTasks()
	for _, path := range taskFiles {
		rows, err := readWorkbookRows(path)
		if err != nil {
			continue
		}
		if parsed, ok := parseTaskRows(rows); ok {
			tasks = parsed
			result.TasksSource = path
			break
		}
	}

	levels := append([]*models.Level(nil), defaultLevels...)
	for _, path := range levelFiles {
		rows, err := readWorkbookRows(path)
		if err != nil {
			continue
		}
		if parsed, ok := parseLevelRows(rows); ok {
			levels = parsed
			result.LevelsSource = path
			break
		}
	}

	var err error
	if result.Tasks, err = im.applyTasks(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to apply task catalog: %w", err)
	}
	if result.Levels, err = im.applyLevels(ctx, levels); err != nil {
		return nil, fmt.Errorf("failed to apply level catalog: %w", err)
	}

	if im.resolver != nil {
		im.resolver.Invalidate()
	}

	slog.Info("Catalog imported",
		slog.String("type", "sys"),
		slog.String("tasks_source", result.TasksSource),
		slog.String("levels_source", result.LevelsSource),
		slog.Int("tasks_created", result.Tasks.Created),
		slog.Int("tasks_updated", result.Tasks.Updated),
		slog.Int("tasks_removed", result.Tasks.Removed),
		slog.Int("levels_created", result.Levels.Created),
		slog.Int("levels_updated", result.Levels.Updated),
		slog.Int("levels_removed", result.Levels.Removed))
	return result, nil
}

func (im *CatalogImporter) fetchRemote(ctx context.Context) []string {
	dir, err := os.MkdirTemp("", "plgbot-catalog-")
	if err != nil {
		slog.Warn("Failed to create temp dir for remote catalog",
			slog.String("type", "sys"),
			slog.String("error", err.Error()))
		return nil
	}

	var fetched []string
	for _, key := range im.remoteKeys {
		dest := filepath.Join(dir, filepath.Base(key))
		if err := im.fetcher.FetchToFile(ctx, key, dest); err != nil {
			slog.Warn("Failed to fetch remote catalog workbook",
				slog.String("type", "sys"),
				slog.String("key", key),
				slog.String("error", err.Error()))
			continue
		}
		fetched = append(fetched, dest)
	}
	return fetched
}

// applyTasks upserts the incoming catalog by code, skipping rows that are
// byte-identical to what is stored, then removes stale unreferenced rows.
func (im *CatalogImporter) applyTasks(ctx context.Context, incoming []catalogTask) (ImportCounts, error) {
	var counts ImportCounts

	existing, err := im.taskRepo.GetAll(ctx)
	if err != nil {
		return counts, err
	}
	byCode := make(map[string]*models.Task, len(existing))
	for _, t := range existing {
		byCode[t.Code] = t
	}

	keep := make([]string, 0, len(incoming))
	for i, in := range incoming {
		code := fmt.Sprintf("T%03d", i+1)
		keep = append(keep, code)

		cur, ok := byCode[code]
		if ok && cur.Name == in.Name && cur.XP == in.XP {
			counts.Kept++
			continue
		}
		if err := im.taskRepo.UpsertByCode(ctx, &models.Task{Code: code, Name: in.Name, XP: in.XP}); err != nil {
			return counts, err
		}
		if ok {
			counts.Updated++
		} else {
			counts.Created++
		}
	}

	removed, err := im.taskRepo.DeleteStale(ctx, keep)
	if err != nil {
		return counts, err
	}
	counts.Removed = int(removed)
	return counts, nil
}

func (im *CatalogImporter) applyLevels(ctx context.Context, incoming []*models.Level) (ImportCounts, error) {
	var counts ImportCounts

	existing, err := im.levelRepo.GetAllOrdered(ctx)
	if err != nil {
		return counts, err
	}
	byNum := make(map[int]*models.Level, len(existing))
	for _, l := range existing {
		byNum[l.Num] = l
	}

	keep := make([]int, 0, len(incoming))
	for _, in := range incoming {
		keep = append(keep, in.Num)

		cur, ok := byNum[in.Num]
		if ok && cur.Title == in.Title && cur.XPRequired == in.XPRequired && cur.Reward == in.Reward {
			counts.Kept++
			continue
		}
		if err := im.levelRepo.UpsertByNum(ctx, &models.Level{
			Num: in.Num, Title: in.Title, XPRequired: in.XPRequired, Reward: in.Reward,
		}); err != nil {
			return counts, err
		}
		if ok {
			counts.Updated++
		} else {
			counts.Created++
		}
	}

	removed, err := im.levelRepo.DeleteStale(ctx, keep)
	if err != nil {
		return counts, err
	}
	counts.Removed = int(removed)
	return counts, nil
}

func defaultCatalogTasks() []catalogTask {
	return append([]catalogTask(nil), defaultTasks...)
}

func readWorkbookRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	return f.GetRows(sheets[0])
}

var digitsRe = regexp.MustCompile(`\d+`)

// numFrom scrapes the first integer out of a spreadsheet cell; cells like
// "50 XP" or "уровень 3" resolve to their number.
func numFrom(cell string) int64 {
	m := digitsRe.FindString(cell)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func findColumn(header []string, prefix string) int {
	for i, col := range header {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(col)), prefix) {
			return i
		}
	}
	return -1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseTaskRows extracts (name, xp) pairs from a sheet whose header row
// carries a name column ("Название…") and an XP column. Returns false when
// the sheet doesn't look like a task catalog.
func parseTaskRows(rows [][]string) ([]catalogTask, bool) {
	if len(rows) < 2 {
		return nil, false
	}
	nameCol := findColumn(rows[0], "название")
	xpCol := findColumn(rows[0], "xp")
	if nameCol < 0 || xpCol < 0 {
		return nil, false
	}

	var tasks []catalogTask
	for _, row := range rows[1:] {
		name := cellAt(row, nameCol)
		if name == "" {
			continue
		}
		tasks = append(tasks, catalogTask{Name: name, XP: numFrom(cellAt(row, xpCol))})
	}
	if len(tasks) == 0 {
		return nil, false
	}
	return tasks, true
}

// parseLevelRows extracts the ladder from a sheet with "Уровень",
// "Звание", "XP…" and "Награда" columns.
func parseLevelRows(rows [][]string) ([]*models.Level, bool) {
	if len(rows) < 2 {
		return nil, false
	}
	numCol := findColumn(rows[0], "уровень")
	titleCol := findColumn(rows[0], "звание")
	xpCol := findColumn(rows[0], "xp")
	rewardCol := findColumn(rows[0], "награда")
	if numCol < 0 || titleCol < 0 || xpCol < 0 || rewardCol < 0 {
		return nil, false
	}

	var levels []*models.Level
	for _, row := range rows[1:] {
		title := cellAt(row, titleCol)
		if title == "" {
			continue
		}
		levels = append(levels, &models.Level{
			Num:        int(numFrom(cellAt(row, numCol))),
			Title:      title,
			XPRequired: numFrom(cellAt(row, xpCol)),
			Reward:     cellAt(row, rewardCol),
		})
	}
	if len(levels) == 0 {
		return nil, false
	}
	return levels, true
}
