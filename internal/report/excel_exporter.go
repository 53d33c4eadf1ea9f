package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"aable-presence/internal/aggregator"
	"aable-presence/internal/models"
	"aable-presence/internal/segment"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// 工作表名称
const (
	SummarySheet      = "Сводка"
	eventsSheetPrefix = "События "
	zonesSheetPrefix  = "Зоны "
)

// SummaryHeader 汇总表表头
var SummaryHeader = []string{
	"ТН",
	"ФИО",
	"Участок работ",
	"Работа, мин",
	"Перерывы, мин",
	"Вне BLE, мин",
	"Прочее, мин",
	"Итого, мин",
	"Итого",
}

// EventsHeader 事件表表头
var EventsHeader = []string{
	"ТН",
	"ФИО",
	"Участок работ",
	"BLE-метка",
	"Описание метки",
	"Зона",
	"Начало",
	"Конец",
	"Минуты",
}

// ExcelExporter 将片段导出为工作簿：汇总页 + 每个班次日期的事件页与区域透视页
type ExcelExporter struct {
	tags   aggregator.TagDescriber
	logger *zap.Logger
}

// NewExcelExporter 创建导出器，tags 可为 nil
func NewExcelExporter(tags aggregator.TagDescriber, logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{tags: tags, logger: logger}
}

// Export 写入 path
func (e *ExcelExporter) Export(segments []models.MinuteSegment, path string) error {
	f, err := e.Build(segments)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	e.logger.Info("Exported presence workbook",
		zap.String("path", path),
		zap.Int("segments", len(segments)),
	)
	return nil
}

// Build 构建工作簿（调用方负责 Close）
func (e *ExcelExporter) Build(segments []models.MinuteSegment) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SummarySheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	// 删除默认的 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := e.writeSummary(f, headerStyle, segments); err != nil {
		f.Close()
		return nil, err
	}

	for _, day := range shiftDays(segments) {
		daySegments := filterDay(segments, day)
		if err := e.writeEvents(f, headerStyle, eventsSheetPrefix+day.Format("2006-01-02"), daySegments); err != nil {
			f.Close()
			return nil, err
		}
		if err := e.writeZonePivot(f, headerStyle, zonesSheetPrefix+day.Format("2006-01-02"), daySegments); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func (e *ExcelExporter) writeSummary(f *excelize.File, headerStyle int, segments []models.MinuteSegment) error {
	if err := writeHeader(f, SummarySheet, SummaryHeader, headerStyle); err != nil {
		return err
	}

	order, groups := segment.GroupByIdentity(segments)
	for i, id := range order {
		segs := groups[id]
		kpi := aggregator.ComputeKPI(segs)
		row := []any{id, segs[0].DisplayName, segs[0].WorkArea}
		for _, b := range models.KPIBuckets {
			row = append(row, kpi.Get(b).Minutes)
		}
		row = append(row, kpi.TotalMinutes, aggregator.FormatDuration(kpi.TotalMinutes))
		if err := writeRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}
	return finishSheet(f, SummarySheet, []float64{12, 30, 20, 12, 14, 12, 12, 12, 12})
}

func (e *ExcelExporter) writeEvents(f *excelize.File, headerStyle int, sheet string, segments []models.MinuteSegment) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := writeHeader(f, sheet, EventsHeader, headerStyle); err != nil {
		return err
	}

	timeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("yyyy-mm-dd hh:mm")})
	if err != nil {
		return fmt.Errorf("failed to create time style: %w", err)
	}

	for i, s := range segments {
		rowNum := i + 2 // 从第2行开始（第1行是表头）
		desc := ""
		if e.tags != nil {
			desc = e.tags.TagDescription(strconv.Itoa(s.TagID))
		}
		row := []any{
			s.IdentityCode,
			s.DisplayName,
			s.WorkArea,
			s.TagID,
			desc,
			s.ZoneName,
			s.Start,
			s.End,
			s.DurationMinutes(),
		}
		if err := writeRow(f, sheet, rowNum, row); err != nil {
			return err
		}
		startCell, _ := excelize.CoordinatesToCellName(7, rowNum)
		endCell, _ := excelize.CoordinatesToCellName(8, rowNum)
		if err := f.SetCellStyle(sheet, startCell, endCell, timeStyle); err != nil {
			return fmt.Errorf("failed to set time style: %w", err)
		}
	}
	return finishSheet(f, sheet, []float64{12, 30, 20, 10, 30, 28, 18, 18, 8})
}

// zoneCellLighten 区域列数据单元格相对区域颜色的变浅系数
const zoneCellLighten = 0.75

// writeZonePivot 人员 x 区域透视，分钟按 0.51 规则取整
// 区域列表头使用区域颜色，数据单元格使用变浅后的区域颜色
func (e *ExcelExporter) writeZonePivot(f *excelize.File, headerStyle int, sheet string, segments []models.MinuteSegment) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	var zones []models.Zone
	seenZone := make(map[models.Zone]bool)
	for _, s := range segments {
		if !seenZone[s.ZoneID] {
			seenZone[s.ZoneID] = true
			zones = append(zones, s.ZoneID)
		}
	}
	zones = aggregator.SortZones(zones)

	header := []string{"ТН", "ФИО"}
	for _, z := range zones {
		header = append(header, z.Name())
	}
	header = append(header, "Итого")
	if err := writeHeader(f, sheet, header, headerStyle); err != nil {
		return err
	}
	headerStyles := make([]int, len(zones))
	cellStyles := make([]int, len(zones))
	for j, z := range zones {
		var err error
		if headerStyles[j], err = newZoneStyle(f, z.Color(), true); err != nil {
			return err
		}
		if cellStyles[j], err = newZoneStyle(f, aggregator.LightenColor(z.Color(), zoneCellLighten), false); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(j+3, 1)
		if err := f.SetCellStyle(sheet, cell, cell, headerStyles[j]); err != nil {
			return fmt.Errorf("failed to set zone header style: %w", err)
		}
	}

	order, groups := segment.GroupByIdentity(segments)
	for i, id := range order {
		sums := make(map[models.Zone]float64)
		for _, s := range groups[id] {
			sums[s.ZoneID] += s.DurationMinutes()
		}
		row := []any{id, groups[id][0].DisplayName}
		total := 0
		for _, z := range zones {
			m := aggregator.Round051(sums[z])
			total += m
			row = append(row, m)
		}
		row = append(row, total)
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
		for j := range zones {
			cell, _ := excelize.CoordinatesToCellName(j+3, i+2)
			if err := f.SetCellStyle(sheet, cell, cell, cellStyles[j]); err != nil {
				return fmt.Errorf("failed to set zone cell style: %w", err)
			}
		}
	}

	widths := []float64{12, 30}
	for range zones {
		widths = append(widths, 16)
	}
	return finishSheet(f, sheet, append(widths, 10))
}

func newHeaderStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

// newZoneStyle 区域颜色填充；header 为 true 时加粗居中
func newZoneStyle(f *excelize.File, color string, header bool) (int, error) {
	style := &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	}
	if header {
		style.Font = &excelize.Font{Bold: true}
		style.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create zone style %s: %w", color, err)
	}
	return id, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d on %s: %w", row, sheet, err)
	}
	return nil
}

// finishSheet 设置列宽并冻结表头
func finishSheet(f *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func shiftDays(segments []models.MinuteSegment) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, s := range segments {
		if !seen[s.ShiftDay] {
			seen[s.ShiftDay] = true
			days = append(days, s.ShiftDay)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func filterDay(segments []models.MinuteSegment, day time.Time) []models.MinuteSegment {
	var out []models.MinuteSegment
	for _, s := range segments {
		if s.ShiftDay.Equal(day) {
			out = append(out, s)
		}
	}
	return out
}

func strPtr(s string) *string { return &s }
