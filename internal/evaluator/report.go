package evaluator

import (
	"fmt"
	"strings"

	"aable-presence/internal/models"
)

// FormatZeroSignalReport 无信号过多的文字报告
func FormatZeroSignalReport(flags []models.ZeroSignalFlag, threshold int) string {
	lines := []string{fmt.Sprintf("Сотрудники с более чем %d записями с меткой 0:", threshold)}
	for _, f := range flags {
		lines = append(lines, fmt.Sprintf("  - %s: %d записей", f.IdentityCode, f.Count))
	}
	return strings.Join(lines, "\n")
}

// FormatGapReport 时间缺口的文字报告，每人最多列出 maxPerIdentity 条
func FormatGapReport(order []string, gaps map[string][]models.GapRecord, directory Directory, maxPerIdentity int) string {
	lines := []string{"Обнаружены разрывы во времени:"}
	for _, id := range order {
		name := id
		if directory != nil {
			name = directory.DisplayName(id)
		}
		lines = append(lines, fmt.Sprintf("\n%s (%s):", name, id))
		lines = append(lines, FormatGapLines(gaps[id], maxPerIdentity)...)
	}
	return strings.Join(lines, "\n")
}

// FormatGapLines 单个人员的缺口行
func FormatGapLines(gaps []models.GapRecord, max int) []string {
	if max <= 0 {
		max = len(gaps)
	}
	var lines []string
	for i, g := range gaps {
		if i >= max {
			break
		}
		lines = append(lines, fmt.Sprintf("  %s - %s (%d мин)", g.From.Format("15:04"), g.To.Format("15:04"), g.GapMinutes))
	}
	if len(gaps) > max {
		lines = append(lines, fmt.Sprintf("  ... и ещё %d разрывов", len(gaps)-max))
	}
	return lines
}
