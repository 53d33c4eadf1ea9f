package models

import "strings"

// ReferenceData 外部参考数据（只读）
// 所有键均为去除首尾空白后的字符串
type ReferenceData struct {
	DisplayNames    map[string]string // identity_code -> 姓名
	WorkAreas       map[string]string // identity_code -> 工作区域
	TagDescriptions map[string]string // tag_id -> 描述
}

// DisplayName 姓名，缺失时回退为原始编码
func (r *ReferenceData) DisplayName(identity string) string {
	key := strings.TrimSpace(identity)
	if r != nil {
		if name, ok := r.DisplayNames[key]; ok && name != "" {
			return name
		}
	}
	return key
}

// WorkArea 工作区域，缺失时为空字符串
func (r *ReferenceData) WorkArea(identity string) string {
	if r == nil {
		return ""
	}
	return r.WorkAreas[strings.TrimSpace(identity)]
}

// TagDescription 标签描述，缺失时为空字符串
func (r *ReferenceData) TagDescription(tag string) string {
	if r == nil {
		return ""
	}
	return r.TagDescriptions[strings.TrimSpace(tag)]
}
