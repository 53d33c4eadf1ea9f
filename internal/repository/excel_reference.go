package repository

import (
	"context"
	"fmt"
	"os"
	"strings"

	"aable-presence/internal/normalizer"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelReferenceRepository 从本地工作簿读取参考数据
// 标签日志：A 列标签号，B 列描述；人员对照表：A 列工号，B 列姓名，D 列工作区域。首行均为表头
type ExcelReferenceRepository struct {
	journalFile string
	peopleFile  string
	logger      *zap.Logger
}

// NewExcelReferenceRepository 创建基于工作簿的参考数据仓库
func NewExcelReferenceRepository(journalFile, peopleFile string, logger *zap.Logger) *ExcelReferenceRepository {
	return &ExcelReferenceRepository{
		journalFile: journalFile,
		peopleFile:  peopleFile,
		logger:      logger,
	}
}

// LoadTagDescriptions 读取 BLE 标签日志，描述为空的行跳过
func (r *ExcelReferenceRepository) LoadTagDescriptions(ctx context.Context) (map[string]string, error) {
	rows, err := readFirstSheet(r.journalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag journal: %w", err)
	}

	tags := make(map[string]string)
	for _, row := range skipHeader(rows) {
		if len(row) < 2 {
			continue
		}
		tag := normalizer.TagKey(row[0])
		desc := strings.TrimSpace(row[1])
		if tag != "" && desc != "" {
			tags[tag] = desc
		}
	}

	r.logger.Debug("Loaded BLE tag journal",
		zap.String("file", r.journalFile),
		zap.Int("tags", len(tags)),
	)
	return tags, nil
}

// LoadPeople 读取人员对照表
func (r *ExcelReferenceRepository) LoadPeople(ctx context.Context) (map[string]string, map[string]string, error) {
	rows, err := readFirstSheet(r.peopleFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read people mapping: %w", err)
	}

	names := make(map[string]string)
	areas := make(map[string]string)
	for _, row := range skipHeader(rows) {
		if len(row) == 0 {
			continue
		}
		id := normalizer.IdentityString(row[0])
		if id == "" {
			continue
		}
		if len(row) > 1 {
			if name := strings.TrimSpace(row[1]); name != "" {
				names[id] = name
			}
		}
		if len(row) > 3 {
			if area := strings.TrimSpace(row[3]); area != "" {
				areas[id] = area
			}
		}
	}

	r.logger.Debug("Loaded people mapping",
		zap.String("file", r.peopleFile),
		zap.Int("names", len(names)),
		zap.Int("areas", len(areas)),
	)
	return names, areas, nil
}

func readFirstSheet(path string) ([][]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file not configured", ErrReferenceNotFound)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrReferenceNotFound, path)
		}
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("%w: no sheets in %s", ErrReferenceNotFound, path)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	return rows, nil
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	return rows[1:]
}
