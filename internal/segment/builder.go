package segment

import (
	"time"

	"aable-presence/internal/models"
	"aable-presence/internal/normalizer"
)

// Directory 参考数据查询（姓名、工作区域），由外部只读提供
type Directory interface {
	DisplayName(identity string) string
	WorkArea(identity string) string
}

// Builder 将读数构造成一分钟片段
type Builder struct {
	directory Directory
}

// NewBuilder 创建片段构造器，directory 可为 nil（姓名回退为工号，区域为空）
func NewBuilder(directory Directory) *Builder {
	if directory == nil {
		directory = (*models.ReferenceData)(nil)
	}
	return &Builder{directory: directory}
}

type groupKey struct {
	identity string
	day      time.Time
}

// Build 按 (工号, 班次日期) 分组，组内保持原始行序顺序扫描
// 时刻比上一条严格变小视为跨过午夜，墙上日期 +1 天；片段的 ShiftDay 始终是原始分组日期
// 时刻/班次日期为空或工号为空的读数不产生片段
func (b *Builder) Build(readings []models.NormalizedReading) []models.MinuteSegment {
	var order []groupKey
	groups := make(map[groupKey][]models.NormalizedReading)
	for _, r := range readings {
		if r.IdentityCode == "" || r.ShiftDay == nil {
			continue
		}
		key := groupKey{identity: r.IdentityCode, day: *r.ShiftDay}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	segments := make([]models.MinuteSegment, 0, len(readings))
	for _, key := range order {
		segments = append(segments, b.buildGroup(key, groups[key])...)
	}
	return segments
}

func (b *Builder) buildGroup(key groupKey, readings []models.NormalizedReading) []models.MinuteSegment {
	displayName := b.directory.DisplayName(key.identity)
	workArea := b.directory.WorkArea(key.identity)

	out := make([]models.MinuteSegment, 0, len(readings))
	dayOffset := 0
	var prev *models.TimeOfDay
	for _, r := range readings {
		if r.TimeOfDay == nil {
			continue
		}
		if prev != nil && r.TimeOfDay.Before(*prev) {
			dayOffset++
		}
		prev = r.TimeOfDay

		start := r.TimeOfDay.On(key.day.AddDate(0, 0, dayOffset))
		zone := models.Zone(normalizer.CodeOrZero(r.ZoneID))
		out = append(out, models.MinuteSegment{
			IdentityCode: key.identity,
			DisplayName:  displayName,
			WorkArea:     workArea,
			ShiftDay:     key.day,
			Start:        start,
			End:          start.Add(models.SegmentDuration),
			TagID:        normalizer.CodeOrZero(r.TagID),
			ZoneID:       zone,
			ZoneName:     zone.Name(),
			SourceFile:   r.SourceFile,
		})
	}
	return out
}

// GroupByIdentity 按工号分组，保持首次出现顺序与组内顺序
func GroupByIdentity(segments []models.MinuteSegment) ([]string, map[string][]models.MinuteSegment) {
	var order []string
	groups := make(map[string][]models.MinuteSegment)
	for _, s := range segments {
		if _, ok := groups[s.IdentityCode]; !ok {
			order = append(order, s.IdentityCode)
		}
		groups[s.IdentityCode] = append(groups[s.IdentityCode], s)
	}
	return order, groups
}
