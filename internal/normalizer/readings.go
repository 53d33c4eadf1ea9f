package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"aable-presence/internal/models"
)

// ParseReadings 解析归一化表的日期与时间字段，与输入逐行一一对应
func ParseReadings(table *models.NormalizedTable) []models.NormalizedReading {
	if table == nil {
		return nil
	}
	out := make([]models.NormalizedReading, 0, len(table.Rows))
	for _, row := range table.Rows {
		out = append(out, models.NormalizedReading{
			IdentityCode: IdentityString(row.IdentityCode),
			ShiftDay:     ParseDateValue(row.ShiftDay),
			TagID:        row.TagID,
			ZoneID:       row.ZoneID,
			TimeOfDay:    ParseTimeOfDay(row.TimeOfDay),
			SourceFile:   table.SourceFile,
			FileDate:     table.FileDate,
		})
	}
	return out
}

// IdentityString 工号的规范字符串形式：去空白，数值型工号去掉 ".0"
func IdentityString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(x)
		if strings.HasSuffix(s, ".0") && isDigits(s[:len(s)-2]) {
			return s[:len(s)-2]
		}
		return s
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return ""
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CodeInt 将标签/区域值转为整数（先按浮点解析再截断），无法解析时 ok=false
func CodeInt(v any) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case float32:
		return CodeInt(float64(x))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return CodeInt(f)
	default:
		return 0, false
	}
}

// CodeOrZero 同 CodeInt，失败时取 0（即"信标范围外"）
func CodeOrZero(v any) int {
	n, _ := CodeInt(v)
	return n
}

// TagKey 标签的查表键（去空白的字符串形式，数值标签去掉 ".0"）
func TagKey(v any) string {
	return IdentityString(v)
}

// IsNoSignalTag 标签值字面为 "0" / "0.0" / 空
func IsNoSignalTag(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(x)
		return s == "" || s == "0" || s == "0.0"
	case float64:
		return x == 0
	case float32:
		return x == 0
	case int:
		return x == 0
	case int64:
		return x == 0
	default:
		return false
	}
}
