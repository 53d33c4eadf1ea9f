package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"aable-presence/common/config"
	"aable-presence/internal/consumer"
)

// 参考数据来源
const (
	ReferenceSourceExcel    = "excel"
	ReferenceSourcePostgres = "postgres"
)

// Config 服务配置
type Config struct {
	Database config.DatabaseConfig
	Redis    config.RedisConfig
	MQTT     config.MQTTConfig
	Telegram config.TelegramConfig

	// 在场分析配置
	Presence struct {
		Facilities []consumer.Facility // 设施目录（name=dir;name2=dir2）
		OutputDir  string              // 导出目录，为空则不导出
		DateFrom   time.Time
		DateTo     time.Time

		ReferenceSource string // excel | postgres
		TagJournalFile  string // BLE 标签日志工作簿
		PeopleFile      string // 人员映射工作簿

		ZeroSignalThreshold int
		GapThreshold        time.Duration
		MaxGapsReported     int
		TimeWindow          string // HH:MM-HH:MM，为空表示不过滤

		CacheTTL      time.Duration
		AnomalyStream       string
		AnomalyStreamMaxLen int // 0 表示使用通知器默认值
		AnomalyTopic        string
		Notifiers           []string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 连接配置：先给默认值，再由环境变量覆盖
	cfg.Database = config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "aable",
		SSLMode:  "disable",
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = config.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.MQTT = config.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "aable-presence",
		QoS:      1,
	}
	cfg.MQTT.LoadFromEnv("MQTT")

	cfg.Telegram = config.TelegramConfig{
		APIURL:  "https://api.telegram.org",
		Timeout: 10 * time.Second,
	}
	cfg.Telegram.LoadFromEnv("TELEGRAM")

	facilities, err := parseFacilities(getEnv("PRESENCE_FACILITIES", ""))
	if err != nil {
		return nil, err
	}
	cfg.Presence.Facilities = facilities
	cfg.Presence.OutputDir = getEnv("PRESENCE_OUTPUT_DIR", "")

	// 日期范围默认今天
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if cfg.Presence.DateFrom, err = getEnvDate("PRESENCE_DATE_FROM", today); err != nil {
		return nil, err
	}
	if cfg.Presence.DateTo, err = getEnvDate("PRESENCE_DATE_TO", today); err != nil {
		return nil, err
	}
	if cfg.Presence.DateTo.Before(cfg.Presence.DateFrom) {
		return nil, fmt.Errorf("PRESENCE_DATE_TO %s is before PRESENCE_DATE_FROM %s",
			cfg.Presence.DateTo.Format("2006-01-02"), cfg.Presence.DateFrom.Format("2006-01-02"))
	}

	cfg.Presence.ReferenceSource = strings.ToLower(getEnv("PRESENCE_REFERENCE_SOURCE", ReferenceSourceExcel))
	switch cfg.Presence.ReferenceSource {
	case ReferenceSourceExcel, ReferenceSourcePostgres:
	default:
		return nil, fmt.Errorf("unsupported PRESENCE_REFERENCE_SOURCE: %s", cfg.Presence.ReferenceSource)
	}
	cfg.Presence.TagJournalFile = getEnv("PRESENCE_TAG_JOURNAL_FILE", "")
	cfg.Presence.PeopleFile = getEnv("PRESENCE_PEOPLE_FILE", "")

	cfg.Presence.ZeroSignalThreshold = getEnvInt("PRESENCE_ZERO_SIGNAL_THRESHOLD", 100)
	cfg.Presence.GapThreshold = time.Duration(getEnvInt("PRESENCE_GAP_THRESHOLD_MINUTES", 1)) * time.Minute
	cfg.Presence.MaxGapsReported = getEnvInt("PRESENCE_MAX_GAPS_REPORTED", 5)
	cfg.Presence.TimeWindow = getEnv("PRESENCE_TIME_WINDOW", "")

	cfg.Presence.CacheTTL = time.Duration(getEnvInt("PRESENCE_CACHE_TTL", 3600)) * time.Second
	cfg.Presence.AnomalyStream = getEnv("PRESENCE_ANOMALY_STREAM", "presence:anomalies")
	cfg.Presence.AnomalyStreamMaxLen = getEnvInt("PRESENCE_ANOMALY_STREAM_MAXLEN", 0)
	cfg.Presence.AnomalyTopic = getEnv("PRESENCE_ANOMALY_TOPIC", "presence/anomalies")
	cfg.Presence.Notifiers = splitList(getEnv("PRESENCE_NOTIFIERS", "log"))

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

// NotifierEnabled 是否启用指定通知渠道
func (c *Config) NotifierEnabled(name string) bool {
	for _, n := range c.Presence.Notifiers {
		if n == name {
			return true
		}
	}
	return false
}

// parseFacilities 解析 name=dir;name2=dir2
func parseFacilities(s string) ([]consumer.Facility, error) {
	var out []consumer.Facility
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dir, ok := strings.Cut(part, "=")
		name, dir = strings.TrimSpace(name), strings.TrimSpace(dir)
		if !ok || name == "" || dir == "" {
			return nil, fmt.Errorf("invalid PRESENCE_FACILITIES entry: %q", part)
		}
		out = append(out, consumer.Facility{Name: name, Dir: dir})
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt 非法或负数值保持默认
func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil && v >= 0 {
		return v
	}
	return defaultValue
}

func getEnvDate(key string, defaultValue time.Time) (time.Time, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
