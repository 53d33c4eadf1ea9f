package models

import "time"

// 规范字段名（列归一化后的固定顺序）
const (
	ColumnIdentityCode = "identity_code"
	ColumnShiftDay     = "shift_day"
	ColumnTagID        = "tag_id"
	ColumnZoneID       = "zone_id"
	ColumnTimeOfDay    = "time_of_day"
)

// CanonicalColumns 归一化表的五个规范列，顺序固定
var CanonicalColumns = []string{
	ColumnIdentityCode,
	ColumnShiftDay,
	ColumnTagID,
	ColumnZoneID,
	ColumnTimeOfDay,
}

// RawTable 原始表格（一个 AA_BLE 工作表）
// 单元格值可能是 nil、string、float64、int、time.Time 或 TimeOfDay
type RawTable struct {
	SourceFile string
	FileDate   *time.Time
	Header     []string
	Rows       [][]any
}

// Width 表格宽度：表头与最长数据行中的较大者
func (t *RawTable) Width() int {
	width := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Cell 读取单元格，越界返回 nil
func (t *RawTable) Cell(row, col int) any {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return nil
	}
	if col >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][col]
}

// NormalizedRow 归一化后的一行（字段值仍为原始单元格值）
type NormalizedRow struct {
	IdentityCode any
	ShiftDay     any
	TagID        any
	ZoneID       any
	TimeOfDay    any
}

// NormalizedTable 列归一化结果，与源表逐行对应
type NormalizedTable struct {
	Columns    []string
	Rows       []NormalizedRow
	SourceFile string
	FileDate   *time.Time
}
