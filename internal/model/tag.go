package model

import "strings"

// DefaultTags 探索頁預設顯示的標籤
var DefaultTags = []string{
	"tech", "entrepreneurship", "art", "volunteering",
	"sports", "science", "community", "innovation",
}

// DefaultInterests 尚未設定偏好時的初始標籤
var DefaultInterests = []string{"tech", "innovation"}

// ParseTags 解析逗號分隔的標籤字串
func ParseTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}

// NormalizeTags 去除空白、轉小寫、去重，保留原順序
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ToggleTag 已選則移除，未選則加到最後
func ToggleTag(tags []string, tag string) []string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	out := make([]string, 0, len(tags)+1)
	found := false
	for _, t := range tags {
		if t == tag {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found && tag != "" {
		out = append(out, tag)
	}
	return out
}
