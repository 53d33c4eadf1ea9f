package normalizer

import (
	"strings"
	"time"

	"aable-presence/internal/models"
)

// batchDateColumns 推断批次日期时的列优先级，每组内按表头精确匹配（忽略大小写）
var batchDateColumns = [][]string{
	{"date", "дата"},
	{"дата на объекте"},
	{"день смены", "дата смены", "shift_day", "shift day"},
}

// InferBatchDate 为整批数据推断一个代表日期
// 按优先级选列，列内第一个可解析的非空值即为结果；全部失败返回 nil，由调用方回退（如文件名中的日期）
func InferBatchDate(table *models.RawTable) *time.Time {
	if table == nil {
		return nil
	}
	for _, group := range batchDateColumns {
		col := headerIndex(table.Header, group)
		if col < 0 {
			continue
		}
		for row := range table.Rows {
			if d := ParseDateValue(table.Cell(row, col)); d != nil {
				return d
			}
		}
	}
	return nil
}

func headerIndex(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}
