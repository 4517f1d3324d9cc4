package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/plgteam/plgbot/plgbot/database/models"
)

func TestParseTaskRows(t *testing.T) {
	rows := [][]string{
		{"Название задания", "XP за выполнение"},
		{"Подмена на смене", "10"},
		{"Генеральная уборка", "25 XP"},
		{"", "5"},
	}

	tasks, ok := parseTaskRows(rows)
	require.True(t, ok)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Подмена на смене", tasks[0].Name)
	assert.Equal(t, int64(10), tasks[0].XP)
	assert.Equal(t, int64(25), tasks[1].XP)
}

func TestParseTaskRowsRejectsForeignSheet(t *testing.T) {
	_, ok := parseTaskRows([][]string{{"Имя", "Баллы"}, {"x", "1"}})
	assert.False(t, ok)

	_, ok = parseTaskRows([][]string{{"Название", "XP"}})
	assert.False(t, ok, "header-only sheet has no rows")
}

func TestParseLevelRows(t *testing.T) {
	rows := [][]string{
		{"Уровень", "Звание", "XP для достижения", "Награда"},
		{"1", "Новичок", "50", "Наклейка"},
		{"уровень 2", "Боец", "150", ""},
		{"3", "", "300", "Кружка"},
	}

	levels, ok := parseLevelRows(rows)
	require.True(t, ok)
	require.Len(t, levels, 2)
	assert.Equal(t, 1, levels[0].Num)
	assert.Equal(t, "Новичок", levels[0].Title)
	assert.Equal(t, int64(50), levels[0].XPRequired)
	assert.Equal(t, "Наклейка", levels[0].Reward)
	assert.Equal(t, 2, levels[1].Num)
}

func TestNumFrom(t *testing.T) {
	assert.Equal(t, int64(50), numFrom("50"))
	assert.Equal(t, int64(50), numFrom("50 XP"))
	assert.Equal(t, int64(3), numFrom("уровень 3"))
	assert.Equal(t, int64(0), numFrom("нет"))
	assert.Equal(t, int64(0), numFrom(""))
}

func TestImportFallsBackToDefaults(t *testing.T) {
	tasks := &fakeTaskRepo{}
	levels := &fakeLevelRepo{}
	im := NewCatalogImporter(tasks, levels, nil, []string{"/nonexistent/tasks.xlsx"}, nil)

	result, err := im.Import(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "defaults", result.TasksSource)
	assert.Equal(t, "defaults", result.LevelsSource)
	assert.Equal(t, len(defaultTasks), result.Tasks.Created)
	assert.Equal(t, len(defaultLevels), result.Levels.Created)

	stored, _ := tasks.GetAll(context.Background())
	require.Len(t, stored, len(defaultTasks))
	for i, task := range stored {
		assert.Equal(t, fmt.Sprintf("T%03d", i+1), task.Code)
	}
}

func TestImportIsIdempotent(t *testing.T) {
	tasks := &fakeTaskRepo{}
	levels := &fakeLevelRepo{}
	im := NewCatalogImporter(tasks, levels, nil, nil, nil)

	_, err := im.Import(context.Background())
	require.NoError(t, err)

	result, err := im.Import(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Tasks.Created)
	assert.Equal(t, 0, result.Tasks.Updated)
	assert.Equal(t, len(defaultTasks), result.Tasks.Kept)
	assert.Equal(t, 0, result.Tasks.Removed)
	assert.Equal(t, len(defaultLevels), result.Levels.Kept)
}

func TestImportUpdatesAndRemovesStale(t *testing.T) {
	tasks := &fakeTaskRepo{tasks: []*models.Task{
		{ID: 1, Code: "T001", Name: defaultTasks[0].Name, XP: defaultTasks[0].XP + 5},
		{ID: 2, Code: "T999", Name: "Снятое задание", XP: 1},
	}}
	levels := &fakeLevelRepo{}
	im := NewCatalogImporter(tasks, levels, nil, nil, nil)

	result, err := im.Import(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Tasks.Updated, "changed XP forces an upsert")
	assert.Equal(t, len(defaultTasks)-1, result.Tasks.Created)
	assert.Equal(t, 1, result.Tasks.Removed, "T999 is not in the incoming catalog")

	got, err := tasks.GetByCode(context.Background(), "T001")
	require.NoError(t, err)
	assert.Equal(t, defaultTasks[0].XP, got.XP)
}

// junkFetcher stands in for a remote source whose objects are not valid
// workbooks.
type junkFetcher struct{}

func (junkFetcher) FetchToFile(_ context.Context, _ string, dest string) error {
	return os.WriteFile(dest, []byte("not a workbook"), 0o644)
}

func writeTaskWorkbook(t *testing.T, path string) {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"Название задания", "XP"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]interface{}{"Особое задание", 40}))
	require.NoError(t, wb.SaveAs(path))
}

func TestImportReadsConfiguredWorkbookPastFetchedFiles(t *testing.T) {
	taskPath := filepath.Join(t.TempDir(), "tasks.xlsx")
	writeTaskWorkbook(t, taskPath)

	tasks := &fakeTaskRepo{}
	// Three unreadable remote files: the configured workbook must still be
	// tried after all of them.
	im := NewCatalogImporter(tasks, &fakeLevelRepo{}, nil, []string{taskPath}, nil).
		WithFetcher(junkFetcher{}, []string{"a.xlsx", "b.xlsx", "c.xlsx"})

	result, err := im.Import(context.Background())
	require.NoError(t, err)

	assert.Equal(t, taskPath, result.TasksSource)
	assert.Equal(t, "defaults", result.LevelsSource)

	got, err := tasks.GetByCode(context.Background(), "T001")
	require.NoError(t, err)
	assert.Equal(t, "Особое задание", got.Name)
	assert.Equal(t, int64(40), got.XP)
}

func TestImportInvalidatesResolver(t *testing.T) {
	tasks := &fakeTaskRepo{tasks: []*models.Task{
		{ID: 1, Code: "T001", Name: "Старое название", XP: 10},
	}}
	resolver := NewTaskResolver(tasks)

	_, err := resolver.Resolve(context.Background(), "T001")
	require.NoError(t, err)

	im := NewCatalogImporter(tasks, &fakeLevelRepo{}, resolver, nil, nil)
	_, err = im.Import(context.Background())
	require.NoError(t, err)

	got, err := resolver.Resolve(context.Background(), "T001")
	require.NoError(t, err)
	assert.Equal(t, defaultTasks[0].Name, got.Name, "stale cache entry survived the import")
}
