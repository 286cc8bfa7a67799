package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jack02280/time-Table/internal/model"
)

// ════════════════════════════════════════════════════════════
// ICS 解析器测试
// ════════════════════════════════════════════════════════════

// 标准 ICS 测试数据：2 门周重复课程 + 1 门单次事件
const testICSContent = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
SUMMARY:高等数学
LOCATION:A101
DESCRIPTION:带计算器
DTSTART;TZID=Asia/Shanghai:20250224T081000
DTEND;TZID=Asia/Shanghai:20250224T100500
RRULE:FREQ=WEEKLY;COUNT=16
END:VEVENT
BEGIN:VEVENT
SUMMARY:大学英语
DTSTART;TZID=Asia/Shanghai:20250225T140000
DTEND;TZID=Asia/Shanghai:20250225T160000
RRULE:FREQ=WEEKLY;COUNT=16
END:VEVENT
BEGIN:VEVENT
SUMMARY:专题讲座
LOCATION:报告厅
DTSTART;TZID=Asia/Shanghai:20250309T090000
DTEND;TZID=Asia/Shanghai:20250309T110000
END:VEVENT
END:VCALENDAR`

// BYDAY 多天课程 + 重复事件
const testICSByDay = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
SUMMARY:体育
LOCATION:操场
DTSTART;TZID=Asia/Shanghai:20250224T160000
DTEND;TZID=Asia/Shanghai:20250224T174000
RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR;COUNT=30
END:VEVENT
BEGIN:VEVENT
SUMMARY:体育
LOCATION:操场
DTSTART;TZID=Asia/Shanghai:20250226T160000
DTEND;TZID=Asia/Shanghai:20250226T174000
END:VEVENT
END:VCALENDAR`

func shanghai(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Skipf("缺少时区数据: %v", err)
	}
	return loc
}

func findByName(courses []model.Course, name string) *model.Course {
	for i := range courses {
		if courses[i].Name == name {
			return &courses[i]
		}
	}
	return nil
}

func TestParseICS_BasicCourses(t *testing.T) {
	courses, err := ParseICS(strings.NewReader(testICSContent), shanghai(t))
	if err != nil {
		t.Fatalf("ParseICS 失败: %v", err)
	}
	if len(courses) != 3 {
		t.Fatalf("期望 3 门课程, 实际 %d 门", len(courses))
	}

	math := findByName(courses, "高等数学")
	if math == nil {
		t.Fatal("未找到高等数学")
	}
	if math.Weekday != 1 {
		t.Errorf("高等数学 Weekday 期望 1, 实际 %d", math.Weekday)
	}
	if math.Time != "08:10-10:05" {
		t.Errorf("高等数学 Time 期望 08:10-10:05, 实际 %s", math.Time)
	}
	if math.Location != "A101" || math.Description != "带计算器" {
		t.Errorf("高等数学地点/备注错误: %+v", math)
	}
	if math.ID != "" {
		t.Errorf("解析结果不应带 id, 实际 %q", math.ID)
	}

	english := findByName(courses, "大学英语")
	if english == nil {
		t.Fatal("未找到大学英语")
	}
	if english.Location != icsPlaceholderLocation {
		t.Errorf("无 LOCATION 时期望 %s, 实际 %s", icsPlaceholderLocation, english.Location)
	}

	// 2025-03-09 为周日
	lecture := findByName(courses, "专题讲座")
	if lecture == nil {
		t.Fatal("未找到专题讲座")
	}
	if lecture.Weekday != 7 {
		t.Errorf("专题讲座 Weekday 期望 7, 实际 %d", lecture.Weekday)
	}
}

func TestParseICS_ByDayFanOut(t *testing.T) {
	courses, err := ParseICS(strings.NewReader(testICSByDay), shanghai(t))
	if err != nil {
		t.Fatalf("ParseICS 失败: %v", err)
	}
	// MO,WE,FR 展开为 3 门，周三的单次事件与展开结果重复，被合并
	if len(courses) != 3 {
		t.Fatalf("期望 3 门课程, 实际 %d 门", len(courses))
	}
	want := []int{1, 3, 5}
	for i, c := range courses {
		if c.Weekday != want[i] {
			t.Errorf("第 %d 门 Weekday 期望 %d, 实际 %d", i, want[i], c.Weekday)
		}
		if c.Time != "16:00-17:40" {
			t.Errorf("Time 期望 16:00-17:40, 实际 %s", c.Time)
		}
	}
}

func TestParseICS_UTCConvertedToLocation(t *testing.T) {
	content := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
SUMMARY:线性代数
DTSTART:20250224T000000Z
DTEND:20250224T014000Z
END:VEVENT
END:VCALENDAR`

	courses, err := ParseICS(strings.NewReader(content), shanghai(t))
	if err != nil {
		t.Fatalf("ParseICS 失败: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("期望 1 门课程, 实际 %d", len(courses))
	}
	if courses[0].Time != "08:00-09:40" || courses[0].Weekday != 1 {
		t.Errorf("UTC 应换算为上海时间: %+v", courses[0])
	}
}

func TestParseICS_SkipsEventsWithoutSummary(t *testing.T) {
	content := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
DTSTART:20250224T000000Z
DTEND:20250224T014000Z
END:VEVENT
END:VCALENDAR`

	courses, err := ParseICS(strings.NewReader(content), shanghai(t))
	if err != nil {
		t.Fatalf("ParseICS 失败: %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("无 SUMMARY 的事件应跳过, 实际 %d", len(courses))
	}
}

const testICSDuration = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
SUMMARY:线性代数
LOCATION:C303
DTSTART;TZID=Asia/Shanghai:20250224T080000
DURATION:PT45M
RRULE:FREQ=WEEKLY;COUNT=16
END:VEVENT
BEGIN:VEVENT
SUMMARY:实验课
LOCATION:实验楼
DTSTART;TZID=Asia/Shanghai:20250225T130000
DURATION:PT1H30M
END:VEVENT
BEGIN:VEVENT
SUMMARY:格式错误
LOCATION:A101
DTSTART;TZID=Asia/Shanghai:20250226T080000
DURATION:45 minutes
END:VEVENT
BEGIN:VEVENT
SUMMARY:负时长
LOCATION:A101
DTSTART;TZID=Asia/Shanghai:20250227T080000
DURATION:-PT30M
END:VEVENT
END:VCALENDAR`

func TestParseICS_Duration(t *testing.T) {
	courses, err := ParseICS(strings.NewReader(testICSDuration), shanghai(t))
	if err != nil {
		t.Fatalf("ParseICS 失败: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("期望 2 门课程（无法解析的 DURATION 跳过）, 实际 %d: %+v", len(courses), courses)
	}

	la := findByName(courses, "线性代数")
	if la == nil || la.Time != "08:00-08:45" || la.Weekday != 1 {
		t.Errorf("线性代数 期望 08:00-08:45 周一, 实际 %+v", la)
	}
	lab := findByName(courses, "实验课")
	if lab == nil || lab.Time != "13:00-14:30" || lab.Weekday != 2 {
		t.Errorf("实验课 期望 13:00-14:30 周二, 实际 %+v", lab)
	}
	if findByName(courses, "格式错误") != nil || findByName(courses, "负时长") != nil {
		t.Error("DURATION 无效的事件应被跳过")
	}
}

func TestParseICSDuration(t *testing.T) {
	valid := map[string]time.Duration{
		"PT45M":   45 * time.Minute,
		"PT1H30M": 90 * time.Minute,
		"pt2h":    2 * time.Hour,
		"PT90S":   90 * time.Second,
		"P1D":     24 * time.Hour,
		"P1W":     7 * 24 * time.Hour,
		"P1DT2H":  26 * time.Hour,
		"+PT10M":  10 * time.Minute,
		"-PT15M":  -15 * time.Minute,
		" PT5M ":  5 * time.Minute,
	}
	for in, want := range valid {
		got, err := parseICSDuration(in)
		if err != nil || got != want {
			t.Errorf("%q: 期望 %v, 实际 %v err=%v", in, want, got, err)
		}
	}

	for _, in := range []string{"", "P", "PT", "45M", "PT45", "P1H", "PT1D", "PTT1H", "P1.5H", "2 hours"} {
		if _, err := parseICSDuration(in); err == nil {
			t.Errorf("%q 应解析失败", in)
		}
	}
}

func TestParseICS_Invalid(t *testing.T) {
	_, err := ParseICS(strings.NewReader("this is not ics"), time.UTC)
	if err == nil {
		t.Error("非法 ICS 应返回错误")
	}
}

// ════════════════════════════════════════════════════════════
// ICS 导出测试
// ════════════════════════════════════════════════════════════

func TestBuildICS_RoundTrip(t *testing.T) {
	loc := shanghai(t)
	courses := []model.Course{
		{ID: "1", Name: "高等数学", Time: "08:10-10:05", Location: "A101", Description: "带计算器", Weekday: 1},
		{ID: "2", Name: "体育", Time: "16:00-17:40", Location: "操场", Weekday: 7},
		{ID: "3", Name: "坏数据", Time: "bad-data", Location: "x", Weekday: 2},
		{ID: "4", Name: "越界", Time: "08:00-09:00", Location: "x", Weekday: 9},
	}
	// 2025-03-05 周三
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, loc)

	content, skipped := BuildICS(courses, now)
	if skipped != 2 {
		t.Errorf("期望跳过 2 门, 实际 %d", skipped)
	}
	if !strings.Contains(content, "RRULE:FREQ=WEEKLY") {
		t.Error("导出内容应包含每周重复规则")
	}

	parsed, err := ParseICS(strings.NewReader(content), loc)
	if err != nil {
		t.Fatalf("导出内容应可重新解析: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("期望 2 门课程, 实际 %d", len(parsed))
	}
	math := findByName(parsed, "高等数学")
	if math == nil || math.Weekday != 1 || math.Time != "08:10-10:05" || math.Location != "A101" {
		t.Errorf("高等数学往返不一致: %+v", math)
	}
	pe := findByName(parsed, "体育")
	if pe == nil || pe.Weekday != 7 || pe.Time != "16:00-17:40" {
		t.Errorf("体育往返不一致: %+v", pe)
	}
}

// ════════════════════════════════════════════════════════════
// FetchICSContent
// ════════════════════════════════════════════════════════════

func TestFetchICSContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(testICSContent))
	}))
	defer srv.Close()

	body, err := FetchICSContent(context.Background(), srv.URL+"/cal.ics", time.Second, 1<<20)
	if err != nil {
		t.Fatalf("FetchICSContent 失败: %v", err)
	}
	defer body.Close()
	courses, err := ParseICS(body, shanghai(t))
	if err != nil || len(courses) != 3 {
		t.Errorf("期望解析出 3 门课程, 实际 %d, err=%v", len(courses), err)
	}

	if _, err := FetchICSContent(context.Background(), srv.URL+"/missing", time.Second, 1<<20); err == nil {
		t.Error("非 200 响应应返回错误")
	}
}

func TestFetchICSContent_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testICSContent))
	}))
	defer srv.Close()

	size := int64(len(testICSContent))

	if _, err := FetchICSContent(context.Background(), srv.URL, time.Second, size-1); !errors.Is(err, ErrICSTooLarge) {
		t.Errorf("超过上限期望 ErrICSTooLarge, 实际 %v", err)
	}

	// 恰好等于上限时完整返回
	body, err := FetchICSContent(context.Background(), srv.URL, time.Second, size)
	if err != nil {
		t.Fatalf("等于上限不应失败: %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if int64(len(data)) != size {
		t.Errorf("期望读取 %d 字节, 实际 %d", size, len(data))
	}
}
