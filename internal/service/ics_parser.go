package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	ics "github.com/arran4/golang-ical"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：从标准 iCalendar (RFC 5545) 课表中提取课程名。
//
//   - 每个 VEVENT 的 SUMMARY 视为课程名，空 SUMMARY 跳过
//   - 同一课程在课表中通常以多个事件（每周一次或 RRULE）出现，按名称去重
//   - 去重大小写不敏感，保留首次出现的写法与顺序
//   - 超过 maxModuleNameLen 个字符的 SUMMARY 截断后再去重
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize   = 5 * 1024 * 1024 // 5MB
	maxModuleNameLen = 200             // 与 planned_modules.name varchar(200) 一致
)

// ErrICSParse ICS 内容无法解析
var ErrICSParse = errors.New("ICS 格式解析失败")

// ParseICSCourseNames 解析 ICS 内容并返回去重后的课程名列表
func ParseICSCourseNames(reader io.Reader) ([]string, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrICSParse, err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, evt := range cal.Events() {
		name, ok := eventSummary(evt)
		if !ok {
			continue
		}
		key := normalizeModuleName(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names, nil
}

// eventSummary 读取 VEVENT 的 SUMMARY
func eventSummary(evt *ics.VEvent) (string, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil {
		return "", false
	}
	name := strings.Join(strings.Fields(summary.Value), " ")
	if name == "" {
		return "", false
	}
	if runes := []rune(name); len(runes) > maxModuleNameLen {
		name = strings.TrimSpace(string(runes[:maxModuleNameLen]))
	}
	return name, true
}

// normalizeModuleName 课程名比较键
func normalizeModuleName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
