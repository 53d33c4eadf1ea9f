package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aable-presence/common/database"
	mqttcommon "aable-presence/common/mqtt"
	rediscommon "aable-presence/common/redis"
	"aable-presence/internal/aggregator"
	"aable-presence/internal/config"
	"aable-presence/internal/consumer"
	"aable-presence/internal/evaluator"
	"aable-presence/internal/models"
	"aable-presence/internal/notifier"
	"aable-presence/internal/report"
	"aable-presence/internal/repository"
	"aable-presence/internal/segment"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PresenceService 在场分析批处理服务
// 每个场地一次批处理：读取工作簿 -> 流水线计算 -> 批次缓存 -> 异常通知 -> 导出
type PresenceService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqttcommon.Client

	loader     *consumer.WorkbookLoader
	refRepo    repository.ReferenceRepository
	kv         aggregator.KVStore
	notifier   notifier.Notifier
	thresholds evaluator.Thresholds
	window     *segment.TimeWindow
}

// NewPresenceService 创建在场分析服务
func NewPresenceService(cfg *config.Config, logger *zap.Logger) (*PresenceService, error) {
	s := &PresenceService{
		config: cfg,
		logger: logger,
		loader: consumer.NewWorkbookLoader(logger),
		thresholds: evaluator.Thresholds{
			ZeroSignal:      cfg.Presence.ZeroSignalThreshold,
			Gap:             cfg.Presence.GapThreshold,
			MaxGapsReported: cfg.Presence.MaxGapsReported,
		},
	}

	if cfg.Presence.TimeWindow != "" {
		window, err := segment.ParseTimeWindow(cfg.Presence.TimeWindow)
		if err != nil {
			return nil, fmt.Errorf("invalid PRESENCE_TIME_WINDOW: %w", err)
		}
		s.window = window
	}

	// 参考数据来源
	switch cfg.Presence.ReferenceSource {
	case config.ReferenceSourcePostgres:
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = db
		s.refRepo = repository.NewPostgresReferenceRepository(db, logger)
	default:
		s.refRepo = repository.NewExcelReferenceRepository(cfg.Presence.TagJournalFile, cfg.Presence.PeopleFile, logger)
	}

	// Redis：批次缓存 + 异常事件流；不可用时缓存退化为内存
	redisClient := rediscommon.NewRedisClient(&cfg.Redis)
	if err := rediscommon.Ping(context.Background(), redisClient); err != nil {
		logger.Warn("Redis unavailable, using in-memory batch cache",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err),
		)
		rediscommon.Close(redisClient)
		s.kv = aggregator.NewMemoryKVStore()
	} else {
		s.redisClient = redisClient
		s.kv = aggregator.NewRedisKVStore(redisClient)
	}

	notifiers, err := s.buildNotifiers()
	if err != nil {
		s.Stop()
		return nil, err
	}
	s.notifier = notifier.NewMulti(logger, notifiers...)

	return s, nil
}

// buildNotifiers 按配置创建通知渠道，日志渠道始终启用
func (s *PresenceService) buildNotifiers() ([]notifier.Notifier, error) {
	cfg := s.config
	list := []notifier.Notifier{notifier.NewLogNotifier(s.logger)}

	if cfg.NotifierEnabled("stream") {
		if s.redisClient == nil {
			s.logger.Warn("Stream notifier disabled: redis unavailable")
		} else {
			list = append(list, notifier.NewStreamNotifier(s.redisClient, cfg.Presence.AnomalyStream, int64(cfg.Presence.AnomalyStreamMaxLen), s.logger))
		}
	}
	if cfg.NotifierEnabled("mqtt") {
		client, err := mqttcommon.NewClient(&cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mqtt: %w", err)
		}
		s.mqttClient = client
		list = append(list, notifier.NewMQTTNotifier(client, cfg.Presence.AnomalyTopic, s.logger))
	}
	if cfg.NotifierEnabled("telegram") {
		if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
			s.logger.Warn("Telegram notifier disabled: bot token or chat id not configured")
		} else {
			list = append(list, notifier.NewTelegramNotifier(cfg.Telegram, cfg.Presence.MaxGapsReported, s.logger))
		}
	}
	return list, nil
}

// Run 处理配置中的全部场地
// 单个场地没有工作簿时只记录警告；全部场地都没有数据时返回 ErrNoWorkbooks
func (s *PresenceService) Run(ctx context.Context, from, to time.Time) ([]*BatchResult, error) {
	s.logger.Info("Starting presence batch run",
		zap.Int("facilities", len(s.config.Presence.Facilities)),
		zap.String("date_from", from.Format("2006-01-02")),
		zap.String("date_to", to.Format("2006-01-02")),
		zap.String("reference_source", s.config.Presence.ReferenceSource),
	)

	refs := repository.LoadReferenceData(ctx, s.refRepo, s.logger)

	var results []*BatchResult
	for _, facility := range s.config.Presence.Facilities {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := s.RunFacility(ctx, facility, refs, from, to)
		if errors.Is(err, consumer.ErrNoWorkbooks) {
			s.logger.Warn("No workbooks for facility",
				zap.String("facility", facility.Name),
				zap.String("dir", facility.Dir),
			)
			continue
		}
		if err != nil {
			return results, fmt.Errorf("facility %s: %w", facility.Name, err)
		}
		results = append(results, res)
	}

	if len(results) == 0 {
		return nil, consumer.ErrNoWorkbooks
	}
	return results, nil
}

// RunFacility 对单个场地执行一次批处理
func (s *PresenceService) RunFacility(ctx context.Context, facility consumer.Facility, refs *models.ReferenceData, from, to time.Time) (*BatchResult, error) {
	tables, err := s.loader.LoadFacility(ctx, facility, &from, &to)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New().String()
	pipeline := NewPipeline(refs, s.thresholds, s.window, s.logger.With(zap.String("facility", facility.Name)))
	res := pipeline.Process(batchID, tables)

	// 批次缓存：批处理结束即丢弃
	cache := aggregator.NewBatchCache(batchID, s.kv, s.config.Presence.CacheTTL, s.logger)
	defer func() {
		if err := cache.Discard(context.Background()); err != nil {
			s.logger.Warn("Failed to discard batch cache", zap.String("batch_id", cache.BatchID()), zap.Error(err))
		}
	}()
	for _, tl := range res.Timelines {
		if err := cache.PutTimeline(ctx, tl); err != nil {
			s.logger.Warn("Failed to cache identity timeline",
				zap.String("batch_id", batchID),
				zap.String("identity", tl.IdentityCode),
				zap.Error(err),
			)
		}
	}

	if len(res.Anomalies.Events) > 0 {
		if err := s.notifier.Notify(ctx, res.Anomalies.Events); err != nil {
			s.logger.Warn("Anomaly notification incomplete", zap.String("batch_id", batchID), zap.Error(err))
		}
	}

	if s.config.Presence.OutputDir != "" {
		path := filepath.Join(s.config.Presence.OutputDir, ExportFileName(facility.Name, res.BatchDate, from))
		if err := s.export(ctx, cache, res, refs, path); err != nil {
			return res, err
		}
	}

	return res, nil
}

// export 从批次缓存读取各人员片段并导出工作簿；缓存缺失时使用内存结果
func (s *PresenceService) export(ctx context.Context, cache *aggregator.BatchCache, res *BatchResult, refs *models.ReferenceData, path string) error {
	segments := res.Filtered
	if cached, err := cachedSegments(ctx, cache); err != nil {
		s.logger.Warn("Batch cache incomplete, exporting in-memory segments",
			zap.String("batch_id", res.BatchID),
			zap.Error(err),
		)
	} else if len(cached) == len(res.Filtered) {
		segments = cached
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return report.NewExcelExporter(refs, s.logger).Export(segments, path)
}

func cachedSegments(ctx context.Context, cache *aggregator.BatchCache) ([]models.MinuteSegment, error) {
	ids, err := cache.Identities(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.MinuteSegment
	for _, id := range ids {
		tl, err := cache.GetTimeline(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("identity %s: %w", id, err)
		}
		out = append(out, tl.Segments...)
	}
	return out, nil
}

// ExportFileName 导出文件名：<场地>_<批次日期>.xlsx，批次日期未知时用起始日期
func ExportFileName(facility string, batchDate *time.Time, fallback time.Time) string {
	day := fallback
	if batchDate != nil {
		day = *batchDate
	}
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, facility)
	return fmt.Sprintf("%s_%s.xlsx", name, day.Format("2006-01-02"))
}

// Stop 释放连接
func (s *PresenceService) Stop() error {
	var errs []error
	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}
	if s.redisClient != nil {
		if err := rediscommon.Close(s.redisClient); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if err := database.Close(s.db); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	s.logger.Info("Presence service stopped")
	return errors.Join(errs...)
}
