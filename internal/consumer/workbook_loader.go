package consumer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"aable-presence/internal/models"
	"aable-presence/internal/normalizer"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoWorkbooks 目录中没有符合日期范围的工作簿
var ErrNoWorkbooks = errors.New("no workbooks found")

const maxParallelReads = 4

// Facility 一个场地及其 AA_BLE 导出目录
type Facility struct {
	Name string
	Dir  string
}

// WorkbookFile 待读取的工作簿
type WorkbookFile struct {
	Path     string
	Name     string
	FileDate *time.Time // 文件名中的日期，可能为 nil
}

// WorkbookLoader AA_BLE 工作簿读取器
type WorkbookLoader struct {
	logger *zap.Logger
}

// NewWorkbookLoader 创建工作簿读取器
func NewWorkbookLoader(logger *zap.Logger) *WorkbookLoader {
	return &WorkbookLoader{logger: logger}
}

// ListWorkbooks 列出目录下文件名日期落在 [from, to] 内的 .xlsx 文件（按文件名排序）
// 文件名不含日期的文件仅在未给出任何日期边界时保留
func (l *WorkbookLoader) ListWorkbooks(dir string, from, to *time.Time) ([]WorkbookFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []WorkbookFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}
		fileDate := normalizer.ParseDateFromFilename(name)
		if !inRange(fileDate, from, to) {
			continue
		}
		files = append(files, WorkbookFile{
			Path:     filepath.Join(dir, name),
			Name:     name,
			FileDate: fileDate,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func inRange(d, from, to *time.Time) bool {
	if d == nil {
		return from == nil && to == nil
	}
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// LoadFacility 读取场地目录下的全部工作簿，结果保持文件顺序和行顺序
// 文件并发读取（最多 maxParallelReads 个）；单个文件失败只记录警告，一个可用文件都没有时返回 ErrNoWorkbooks
func (l *WorkbookLoader) LoadFacility(ctx context.Context, facility Facility, from, to *time.Time) ([]*models.RawTable, error) {
	files, err := l.ListWorkbooks(facility.Dir, from, to)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: facility %s (%s)", ErrNoWorkbooks, facility.Name, facility.Dir)
	}

	l.logger.Info("Found AA_BLE workbooks",
		zap.String("facility", facility.Name),
		zap.Int("files", len(files)),
	)

	slots := make([]*models.RawTable, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = l.readUsable(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tables []*models.RawTable
	for _, table := range slots {
		if table != nil {
			tables = append(tables, table)
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no readable workbooks for facility %s", ErrNoWorkbooks, facility.Name)
	}
	return tables, nil
}

// readUsable 读取单个文件，失败或无数据行时返回 nil
func (l *WorkbookLoader) readUsable(file WorkbookFile) *models.RawTable {
	table, err := l.ReadWorkbook(file)
	if err != nil {
		l.logger.Warn("Failed to read workbook",
			zap.String("file", file.Name),
			zap.Error(err),
		)
		return nil
	}
	if len(table.Rows) == 0 {
		l.logger.Warn("Workbook has no data rows", zap.String("file", file.Name))
		return nil
	}
	l.logger.Debug("Read workbook",
		zap.String("file", file.Name),
		zap.Strings("columns", table.Header),
		zap.Int("rows", len(table.Rows)),
	)
	return table
}

// ReadWorkbook 读取工作簿的第二个工作表（只有一个时读第一个），首行为表头
// 数值单元格返回 float64，其余返回 string，空单元格为 nil
func (l *WorkbookLoader) ReadWorkbook(file WorkbookFile) (*models.RawTable, error) {
	f, err := excelize.OpenFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", file.Name)
	}
	sheet := sheets[0]
	if len(sheets) >= 2 {
		sheet = sheets[1]
	} else {
		l.logger.Warn("Workbook has a single sheet, reading the first one",
			zap.String("file", file.Name),
			zap.String("sheet", sheet),
		)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	table := &models.RawTable{
		SourceFile: file.Name,
		FileDate:   file.FileDate,
	}
	if len(rows) == 0 {
		return table, nil
	}

	table.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		table.Header[i] = strings.TrimSpace(h)
	}

	table.Rows = make([][]any, 0, len(rows)-1)
	for r := 1; r < len(rows); r++ {
		row := make([]any, len(rows[r]))
		for c, raw := range rows[r] {
			row[c] = typedCell(f, sheet, c+1, r+1, raw)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// typedCell 按单元格类型还原值：数字为 float64，文本保持 string
func typedCell(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}
