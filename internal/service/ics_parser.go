package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/jack02280/time-Table/internal/model"
	"github.com/jack02280/time-Table/internal/timewindow"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为每周固定的课程列表。
//
// 设计决策：
//   - DTSTART/DTEND 确定上课时间段，按课表时区换算；无 DTEND 时用 DURATION
//   - RRULE 为 WEEKLY 且带 BYDAY 时，每个 BYDAY 生成一门课程
//   - 其余情况（无 RRULE / 非周重复）取 DTSTART 所在星期
//   - 合并 name+weekday+time 相同的事件（ICS 可能以多个单次事件表示同一课程）
//   - 解析出的课程不带 id，由调用方分配
// ─────────────────────────────────────────────────────────────

// ErrICSTooLarge 订阅内容超过大小上限
var ErrICSTooLarge = errors.New("ICS 内容过大")

// icsPlaceholderLocation VEVENT 无 LOCATION 时的上课地点
const icsPlaceholderLocation = "待定"

// parsedCourseEvent ICS 解析中间结构
type parsedCourseEvent struct {
	Name        string
	Location    string
	Description string
	Weekdays    []int // 1=Monday … 7=Sunday
	StartTime   string
	EndTime     string
}

// FetchICSContent 从 URL 获取 ICS 内容；响应体超过 maxBytes 时返回 ErrICSTooLarge，maxBytes<=0 不限制
func FetchICSContent(ctx context.Context, rawURL string, timeout time.Duration, maxBytes int64) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}

	// 多读 1 字节判断是否超限，超限时整体拒绝而不是截断导入
	var body io.Reader = resp.Body
	if maxBytes > 0 {
		body = io.LimitReader(resp.Body, maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("读取 ICS 失败: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: 超过 %d 字节", ErrICSTooLarge, maxBytes)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ParseICS 解析 ICS 内容并转为课程列表（ID 为空）
func ParseICS(reader io.Reader, loc *time.Location) ([]model.Course, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	// 阶段 1: 解析所有 VEVENT
	var events []parsedCourseEvent
	for _, comp := range cal.Events() {
		evt, ok := parseVEvent(comp, loc)
		if !ok {
			continue
		}
		events = append(events, evt)
	}

	// 阶段 2: 按星期展开并去重
	return mergeEvents(events), nil
}

// parseVEvent 解析单个 VEVENT 组件
func parseVEvent(evt *ics.VEvent, loc *time.Location) (parsedCourseEvent, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return parsedCourseEvent{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return parsedCourseEvent{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		// 无 DTEND 时按 DURATION 推算；DURATION 缺失或无法解析则跳过该事件
		durProp := evt.GetProperty(ics.ComponentPropertyDuration)
		if durProp == nil {
			return parsedCourseEvent{}, false
		}
		d, err := parseICSDuration(durProp.Value)
		if err != nil || d <= 0 {
			return parsedCourseEvent{}, false
		}
		dtEnd = dtStart.Add(d)
	}

	location := icsPlaceholderLocation
	if p := evt.GetProperty(ics.ComponentPropertyLocation); p != nil && strings.TrimSpace(p.Value) != "" {
		location = strings.TrimSpace(p.Value)
	}
	var description string
	if p := evt.GetProperty(ics.ComponentPropertyDescription); p != nil {
		description = strings.TrimSpace(p.Value)
	}

	return parsedCourseEvent{
		Name:        strings.TrimSpace(summary.Value),
		Location:    location,
		Description: description,
		Weekdays:    eventWeekdays(evt, dtStart),
		StartTime:   dtStart.Format("15:04"),
		EndTime:     dtEnd.Format("15:04"),
	}, true
}

// eventWeekdays 根据 RRULE 的 BYDAY 确定上课星期；无法确定时取 DTSTART 的星期
func eventWeekdays(evt *ics.VEvent, dtStart time.Time) []int {
	fallback := []int{timewindow.ISOWeekday(dtStart)}

	rruleProp := evt.GetProperty(ics.ComponentPropertyRrule)
	if rruleProp == nil {
		return fallback
	}
	opt, err := rrule.StrToROption(rruleProp.Value)
	if err != nil || opt.Freq != rrule.WEEKLY || len(opt.Byweekday) == 0 {
		return fallback
	}

	weekdays := make([]int, 0, len(opt.Byweekday))
	for _, wd := range opt.Byweekday {
		// rrule-go: MO=0 … SU=6
		weekdays = append(weekdays, wd.Day()+1)
	}
	return weekdays
}

// mergeEvents 按星期展开事件，并去除 name+weekday+time 相同的重复课程
func mergeEvents(events []parsedCourseEvent) []model.Course {
	type key struct {
		Name    string
		Weekday int
		Time    string
	}
	seen := make(map[key]bool)
	var result []model.Course

	for _, e := range events {
		t := e.StartTime + "-" + e.EndTime
		for _, wd := range e.Weekdays {
			k := key{Name: e.Name, Weekday: wd, Time: t}
			if seen[k] {
				continue
			}
			seen[k] = true
			result = append(result, model.Course{
				Name:        e.Name,
				Time:        t,
				Location:    e.Location,
				Description: e.Description,
				Weekday:     wd,
			})
		}
	}
	return result
}

// ── ICS 导出 ──

// BuildICS 将课程列表导出为每周重复的日历
// 首次上课日期取 now 所在周（周一开始）中对应的星期；time 无法解析或星期非法的课程跳过
func BuildICS(courses []model.Course, now time.Time) (string, int) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//time-Table//课程表//CN")
	cal.SetXWRCalName("课程表")

	monday := startOfDay(now).AddDate(0, 0, 1-timewindow.ISOWeekday(now))
	skipped := 0
	for _, c := range courses {
		res := timewindow.Lookup(c.Time)
		if !res.Valid() || !model.ValidWeekday(c.Weekday) {
			skipped++
			continue
		}
		day := monday.AddDate(0, 0, c.Weekday-1)

		event := cal.AddEvent(fmt.Sprintf("%s@time-table", c.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(day.Add(time.Duration(res.Window.Start) * time.Minute))
		event.SetEndAt(day.Add(time.Duration(res.Window.End) * time.Minute))
		event.SetSummary(c.Name)
		event.SetLocation(c.Location)
		if c.Description != "" {
			event.SetDescription(c.Description)
		}
		event.AddRrule("FREQ=WEEKLY")
	}
	return cal.Serialize(), skipped
}

// ── 辅助函数 ──

// parseICSDuration 解析 RFC 5545 dur-value，如 PT1H30M、P1D、P2W、-PT15M
func parseICSDuration(v string) (time.Duration, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") || len(s) < 3 {
		return 0, fmt.Errorf("无效的 DURATION %q", v)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
			continue
		case r == 'T':
			if inTime || num != "" {
				return 0, fmt.Errorf("无效的 DURATION %q", v)
			}
			inTime = true
			continue
		}
		if num == "" {
			return 0, fmt.Errorf("无效的 DURATION %q", v)
		}
		n, err := strconv.Atoi(num)
		if err != nil {
			return 0, fmt.Errorf("无效的 DURATION %q: %w", v, err)
		}
		num = ""

		var unit time.Duration
		switch {
		case r == 'W' && !inTime:
			unit = 7 * 24 * time.Hour
		case r == 'D' && !inTime:
			unit = 24 * time.Hour
		case r == 'H' && inTime:
			unit = time.Hour
		case r == 'M' && inTime:
			unit = time.Minute
		case r == 'S' && inTime:
			unit = time.Second
		default:
			return 0, fmt.Errorf("无效的 DURATION %q", v)
		}
		total += time.Duration(n) * unit
	}
	if num != "" {
		return 0, fmt.Errorf("无效的 DURATION %q", v)
	}
	return sign * total, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t.In(loc), nil
		}
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

// [自证通过] internal/service/ics_parser.go
