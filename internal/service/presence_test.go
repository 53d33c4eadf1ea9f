package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"aable-presence/internal/aggregator"
	"aable-presence/internal/config"
	"aable-presence/internal/consumer"
	"aable-presence/internal/evaluator"
	"aable-presence/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// writeSheets 写入工作簿，sheets 按顺序创建（第一个复用 Sheet1）
func writeSheets(t *testing.T, path string, sheets map[string][][]any, order []string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			rowCopy := row
			require.NoError(t, f.SetSheetRow(name, cell, &rowCopy))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

type fixture struct {
	dataDir   string
	outputDir string
	journal   string
	people    string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	fx := fixture{
		dataDir:   filepath.Join(root, "north"),
		outputDir: filepath.Join(root, "out"),
		journal:   filepath.Join(root, "journal.xlsx"),
		people:    filepath.Join(root, "people.xlsx"),
	}
	require.NoError(t, os.MkdirAll(fx.dataDir, 0o755))

	writeSheets(t, filepath.Join(fx.dataDir, "AA_BLE_2024-01-01.xlsx"), map[string][][]any{
		"Сводка": {{"Отчёт AA_BLE"}},
		"Данные": {
			{"ТН", "День смены", "BLE-метка", "Зона", "Время на объекте"},
			{"001", "2024-01-01", 5, 1, "08:00"},
			{"001", "2024-01-01", 5, 1, "08:01"},
			{"001", "2024-01-01", 5, 1, "08:05"},
		},
	}, []string{"Сводка", "Данные"})
	writeSheets(t, fx.journal, map[string][][]any{
		"Журнал": {{"Метка", "Описание"}, {5, "Кран №5"}},
	}, []string{"Журнал"})
	writeSheets(t, fx.people, map[string][][]any{
		"Люди": {
			{"ТН", "ФИО", "Должность", "Участок работ"},
			{"001", "Иванов И.И.", "Монтажник", "Цех 1"},
		},
	}, []string{"Люди"})
	return fx
}

func newTestConfig(fx fixture, redisAddr string) *config.Config {
	cfg := &config.Config{}
	cfg.Redis.Addr = redisAddr
	cfg.Presence.Facilities = []consumer.Facility{{Name: "Север", Dir: fx.dataDir}}
	cfg.Presence.OutputDir = fx.outputDir
	cfg.Presence.DateFrom = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg.Presence.DateTo = cfg.Presence.DateFrom
	cfg.Presence.ReferenceSource = config.ReferenceSourceExcel
	cfg.Presence.TagJournalFile = fx.journal
	cfg.Presence.PeopleFile = fx.people
	cfg.Presence.ZeroSignalThreshold = 100
	cfg.Presence.GapThreshold = time.Minute
	cfg.Presence.MaxGapsReported = 5
	cfg.Presence.CacheTTL = time.Hour
	cfg.Presence.AnomalyStream = "presence:anomalies"
	cfg.Presence.Notifiers = []string{"log", "stream", "telegram"}
	return cfg
}

func TestPresenceService_Run(t *testing.T) {
	mr := miniredis.RunT(t)
	fx := newFixture(t)
	cfg := newTestConfig(fx, mr.Addr())

	svc, err := NewPresenceService(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })
	assert.IsType(t, &aggregator.RedisKVStore{}, svc.kv)

	results, err := svc.Run(context.Background(), cfg.Presence.DateFrom, cfg.Presence.DateTo)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	require.Len(t, res.Segments, 3)
	require.Len(t, res.Timelines, 1)
	assert.Equal(t, "Иванов И.И.", res.Timelines[0].DisplayName)
	assert.Equal(t, "Цех 1", res.Timelines[0].WorkArea)
	assert.Equal(t, "Кран №5", res.Timelines[0].Zones[0].Tags[0].Description)
	require.Len(t, res.Anomalies.Events, 1)

	// 异常事件写入流，批次缓存已丢弃
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	n, err := client.XLen(context.Background(), "presence:anomalies").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{"presence:anomalies"}, mr.Keys())

	f, err := excelize.OpenFile(filepath.Join(fx.outputDir, "Север_2024-01-01.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Сводка", "События 2024-01-01", "Зоны 2024-01-01"}, f.GetSheetList())
	name, err := f.GetCellValue("Сводка", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Иванов И.И.", name)
}

func TestPresenceService_RedisUnavailable(t *testing.T) {
	fx := newFixture(t)
	cfg := newTestConfig(fx, "127.0.0.1:1")
	cfg.Presence.Facilities = []consumer.Facility{{Name: "Пусто", Dir: t.TempDir()}}

	svc, err := NewPresenceService(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop() })

	assert.IsType(t, &aggregator.MemoryKVStore{}, svc.kv)
	assert.Nil(t, svc.redisClient)

	_, err = svc.Run(context.Background(), cfg.Presence.DateFrom, cfg.Presence.DateTo)
	assert.ErrorIs(t, err, consumer.ErrNoWorkbooks)
}

func TestNewPresenceService_InvalidTimeWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := newTestConfig(newFixture(t), mr.Addr())
	cfg.Presence.TimeWindow = "morning"

	_, err := NewPresenceService(cfg, zap.NewNop())
	assert.Error(t, err)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.AnomalyEvent
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Notify(ctx context.Context, events []models.AnomalyEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func TestPresenceService_RunFacility_MemoryCache(t *testing.T) {
	fx := newFixture(t)
	cfg := newTestConfig(fx, "")
	cfg.Presence.OutputDir = ""
	kv := aggregator.NewMemoryKVStore()
	rec := &recordingNotifier{}
	svc := &PresenceService{
		config:     cfg,
		logger:     zap.NewNop(),
		loader:     consumer.NewWorkbookLoader(zap.NewNop()),
		kv:         kv,
		notifier:   rec,
		thresholds: evaluator.DefaultThresholds(),
	}

	res, err := svc.RunFacility(context.Background(), cfg.Presence.Facilities[0], nil, cfg.Presence.DateFrom, cfg.Presence.DateTo)

	require.NoError(t, err)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, "001", res.Timelines[0].DisplayName)
	require.Len(t, rec.events, 1)
	assert.Equal(t, res.BatchID, rec.events[0].BatchID)
	_, err = kv.Get(context.Background(), "presence:batch:"+res.BatchID+":index")
	assert.ErrorIs(t, err, aggregator.ErrCacheMiss)
}

func TestExportFileName(t *testing.T) {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	fallback := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "Север_2024-03-09.xlsx", ExportFileName("Север", &day, fallback))
	assert.Equal(t, "Цех_1_2_2024-01-01.xlsx", ExportFileName("Цех 1/2", nil, fallback))
}
