package evaluator

import (
	"aable-presence/internal/models"
	"aable-presence/internal/normalizer"
)

// ZeroSignalEvaluator 无信号读数过多检查
// 区域为 0，或标签字面为 "0" / "0.0" / 空，均计为无信号
type ZeroSignalEvaluator struct {
	threshold int
}

// NewZeroSignalEvaluator 创建无信号检查器
func NewZeroSignalEvaluator(threshold int) *ZeroSignalEvaluator {
	return &ZeroSignalEvaluator{threshold: threshold}
}

// EvaluateReadings 基于原始读数计数（含时刻无法解析的行）
func (e *ZeroSignalEvaluator) EvaluateReadings(readings []models.NormalizedReading) []models.ZeroSignalFlag {
	c := newCounter()
	for _, r := range readings {
		if r.IdentityCode == "" {
			continue
		}
		zone, ok := normalizer.CodeInt(r.ZoneID)
		if (ok && zone == int(models.ZoneOutsideBeacons)) || normalizer.IsNoSignalTag(r.TagID) {
			c.add(r.IdentityCode)
		}
	}
	return c.flags(e.threshold)
}

// EvaluateSegments 基于已构造的片段计数
func (e *ZeroSignalEvaluator) EvaluateSegments(segments []models.MinuteSegment) []models.ZeroSignalFlag {
	c := newCounter()
	for _, s := range segments {
		if s.ZoneID == models.ZoneOutsideBeacons || s.TagID == 0 {
			c.add(s.IdentityCode)
		}
	}
	return c.flags(e.threshold)
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(id string) {
	if _, ok := c.counts[id]; !ok {
		c.order = append(c.order, id)
	}
	c.counts[id]++
}

// flags 计数严格大于阈值的人员
func (c *counter) flags(threshold int) []models.ZeroSignalFlag {
	var out []models.ZeroSignalFlag
	for _, id := range c.order {
		if n := c.counts[id]; n > threshold {
			out = append(out, models.ZeroSignalFlag{IdentityCode: id, Count: n})
		}
	}
	return out
}
