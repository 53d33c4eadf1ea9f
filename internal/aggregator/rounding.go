package aggregator

import "math"

// roundUpFraction 小数部分达到该值才进位（0.50 舍，0.51 入）
const roundUpFraction = 0.51

// Round051 时长取整规则：小数部分 >= 0.51 向上取整，否则向下
func Round051(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	if x < 0 {
		return -Round051(-x)
	}
	whole := math.Floor(x)
	// 1e-9 容差，避免 2.51 这类值在二进制下略小于 .51
	if x-whole >= roundUpFraction-1e-9 {
		return int(whole) + 1
	}
	return int(whole)
}

// Percent minutes 占 total 的百分比，保留一位小数；total 为 0 时返回 0
func Percent(minutes, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(minutes)/float64(total)*1000) / 10
}
