package normalizer

import (
	"strings"

	"aable-presence/internal/models"
)

// 列定位策略
const (
	StrategyName     = "name"
	StrategyPosition = "position"
	StrategyMissing  = "missing"
)

// columnSpec 规范列：同义词表 + 旧版导出的固定位置
type columnSpec struct {
	column   string
	position int
	synonyms []string
}

var columnSpecs = []columnSpec{
	{
		column:   models.ColumnIdentityCode,
		position: 0,
		synonyms: []string{"тн", "табельный номер", "табельный", "табель", "tn", "tn_number", "tabnum", "tab_num", "personal"},
	},
	{
		column:   models.ColumnShiftDay,
		position: 3,
		synonyms: []string{"день смены", "дата смены", "shift_day", "shift day", "дата"},
	},
	{
		column:   models.ColumnTagID,
		position: 10,
		synonyms: []string{"ble-метка", "ble метка", "метка", "metka", "ble_tag", "tag", "маяч"},
	},
	{
		column:   models.ColumnZoneID,
		position: 11,
		synonyms: []string{"зона", "zone", "zone_id", "id зоны", "zona"},
	},
	{
		column:   models.ColumnTimeOfDay,
		position: 15,
		synonyms: []string{"время на объекте", "время", "time", "time_only"},
	},
}

// ColumnResolution 某个规范列在源表中的位置，Index 为 -1 表示缺失
type ColumnResolution struct {
	Column   string
	Index    int
	Strategy string
}

// ResolveColumns 为五个规范列定位源列：先按表头同义词（精确匹配优先，其次子串匹配），
// 再回退到固定位置；位置超出表宽则该列缺失
func ResolveColumns(table *models.RawTable) []ColumnResolution {
	width := table.Width()
	headers := make([]string, len(table.Header))
	for i, h := range table.Header {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	resolved := make([]ColumnResolution, 0, len(columnSpecs))
	for _, spec := range columnSpecs {
		res := ColumnResolution{Column: spec.column, Index: -1, Strategy: StrategyMissing}
		if ix := findByName(headers, spec.synonyms); ix >= 0 {
			res.Index = ix
			res.Strategy = StrategyName
		} else if spec.position < width {
			res.Index = spec.position
			res.Strategy = StrategyPosition
		}
		resolved = append(resolved, res)
	}
	return resolved
}

func findByName(headers []string, synonyms []string) int {
	for i, name := range headers {
		for _, syn := range synonyms {
			if name == syn {
				return i
			}
		}
	}
	for i, name := range headers {
		if name == "" {
			continue
		}
		for _, syn := range synonyms {
			if strings.Contains(name, syn) {
				return i
			}
		}
	}
	return -1
}

// NormalizeColumns 将任意列名/列序的表映射为五个规范列
// 输出行数与输入一致；缺失列的值全部为 nil
func NormalizeColumns(table *models.RawTable) *models.NormalizedTable {
	out := &models.NormalizedTable{
		Columns:    append([]string(nil), models.CanonicalColumns...),
		Rows:       make([]models.NormalizedRow, 0, len(table.Rows)),
		SourceFile: table.SourceFile,
		FileDate:   table.FileDate,
	}

	cols := ResolveColumns(table)
	for rowIdx := range table.Rows {
		out.Rows = append(out.Rows, models.NormalizedRow{
			IdentityCode: pick(table, rowIdx, cols[0]),
			ShiftDay:     pick(table, rowIdx, cols[1]),
			TagID:        pick(table, rowIdx, cols[2]),
			ZoneID:       pick(table, rowIdx, cols[3]),
			TimeOfDay:    pick(table, rowIdx, cols[4]),
		})
	}
	return out
}

func pick(table *models.RawTable, row int, col ColumnResolution) any {
	if col.Index < 0 {
		return nil
	}
	return table.Cell(row, col.Index)
}
