package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"aable-presence/internal/models"
)

const secondsPerDay = 86400

var (
	timeHMS = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)
	timeHM  = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

// ParseTimeOfDay 解析时刻：原生时间、"HH:MM:SS" / "HH:MM" 字符串、
// 或表格序列时间（一天的小数部分）。无法解析返回 nil，从不 panic
func ParseTimeOfDay(value any) *models.TimeOfDay {
	switch v := value.(type) {
	case nil:
		return nil
	case models.TimeOfDay:
		return &v
	case *models.TimeOfDay:
		if v == nil {
			return nil
		}
		t := *v
		return &t
	case time.Time:
		return &models.TimeOfDay{Hour: v.Hour(), Minute: v.Minute(), Second: v.Second()}
	case *time.Time:
		if v == nil {
			return nil
		}
		return ParseTimeOfDay(*v)
	case float64:
		return timeFromDayFraction(v)
	case float32:
		return timeFromDayFraction(float64(v))
	case int:
		return timeFromDayFraction(float64(v))
	case int64:
		return timeFromDayFraction(float64(v))
	case string:
		return parseTimeString(v)
	default:
		return nil
	}
}

func parseTimeString(s string) *models.TimeOfDay {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if m := timeHMS.FindStringSubmatch(s); m != nil {
		if t, ok := clock(m[1], m[2], m[3]); ok {
			return t
		}
	}
	if m := timeHM.FindStringSubmatch(s); m != nil {
		if t, ok := clock(m[1], m[2], "0"); ok {
			return t
		}
	}

	// 最后尝试按序列时间解析
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return timeFromDayFraction(f)
	}
	return nil
}

func clock(h, m, s string) (*models.TimeOfDay, bool) {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	second, _ := strconv.Atoi(s)
	if hour > 23 || minute > 59 || second > 59 {
		return nil, false
	}
	return &models.TimeOfDay{Hour: hour, Minute: minute, Second: second}, true
}

// timeFromDayFraction 丢弃整数部分，按 floor(小数*86400) 得到秒
func timeFromDayFraction(f float64) *models.TimeOfDay {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	if f >= 1 {
		f -= math.Floor(f)
	}
	// 1e-6 秒的容差吸收二进制小数误差（如 1/3 天）
	total := int(math.Floor(f*secondsPerDay+1e-6)) % secondsPerDay
	return &models.TimeOfDay{
		Hour:   total / 3600,
		Minute: (total % 3600) / 60,
		Second: total % 60,
	}
}
