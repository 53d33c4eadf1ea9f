package aggregator

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatDuration 时长展示："N мин"（不足一小时）或 "Hч MMм"
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%d мин", m)
	}
	return fmt.Sprintf("%dч %02dм", h, m)
}

// LightenColor 按 factor 向白色混合颜色（用于区域下的标签行）
// 非法颜色原样返回
func LightenColor(hex string, factor float64) string {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return hex
	}
	rgb, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return hex
	}
	lighten := func(c uint64) int {
		return int(float64(c) + (255-float64(c))*factor)
	}
	r := lighten(rgb >> 16 & 0xff)
	g := lighten(rgb >> 8 & 0xff)
	b := lighten(rgb & 0xff)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
