package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelEpoch 表格日期序列的零点
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// 最大序列值（9999-12-31）
const maxDateSerial = 2958465

// dateLayouts 按顺序尝试，第一个匹配的生效
var dateLayouts = []string{
	"2006-1-2",
	"2.1.2006",
	"2/1/2006",
	"2006/1/2",
}

var (
	filenameYMD = regexp.MustCompile(`(\d{4})[ _.\-](\d{2})[ _.\-](\d{2})`)
	filenameDMY = regexp.MustCompile(`(\d{2})[ _.\-](\d{2})[ _.\-](\d{4})`)
)

// ParseDateValue 解析日期：原生时间、四种文本格式或表格日期序列（1899-12-30 + N 天）
// 无法解析返回 nil
func ParseDateValue(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return dateOf(v)
	case *time.Time:
		if v == nil {
			return nil
		}
		return dateOf(*v)
	case string:
		return parseDateString(v)
	case float64:
		return dateFromSerial(v)
	case float32:
		return dateFromSerial(float64(v))
	case int:
		return dateFromSerial(float64(v))
	case int64:
		return dateFromSerial(float64(v))
	default:
		return nil
	}
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t)
		}
	}
	return nil
}

func dateFromSerial(f float64) *time.Time {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxDateSerial {
		return nil
	}
	d := excelEpoch.AddDate(0, 0, int(f))
	return &d
}

func dateOf(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// ParseDateFromFilename 从文件名中提取日期（YYYY-MM-DD 或 DD-MM-YYYY，分隔符可为 - _ . 空格）
func ParseDateFromFilename(name string) *time.Time {
	if m := filenameYMD.FindStringSubmatch(name); m != nil {
		if d := civilDate(m[1], m[2], m[3]); d != nil {
			return d
		}
	}
	if m := filenameDMY.FindStringSubmatch(name); m != nil {
		if d := civilDate(m[3], m[2], m[1]); d != nil {
			return d
		}
	}
	return nil
}

func civilDate(y, m, d string) *time.Time {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)
	if month < 1 || month > 12 || day < 1 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date 会把 02-31 规范化为 03-03，这里拒绝
	if t.Day() != day {
		return nil
	}
	return &t
}
