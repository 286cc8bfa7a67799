package timewindow

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestParse_AllValidWindowsRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 7 {
			s := fmt.Sprintf("%02d:%02d-%02d:%02d", h, m, 23-h, 59-m)
			w, err := Parse(s)
			if err != nil {
				t.Fatalf("Parse(%q) 失败: %v", s, err)
			}
			if w.Start != h*60+m || w.End != (23-h)*60+(59-m) {
				t.Fatalf("Parse(%q) = %+v", s, w)
			}
			if w.Start < 0 || w.Start > 1439 || w.End < 0 || w.End > 1439 {
				t.Fatalf("Parse(%q) 越界: %+v", s, w)
			}
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		"",
		"bad-data",
		"08:00",
		"0800-0940",
		"08:00-09",
		"8:x0-09:40",
		"+8:00-09:40",
		"08:00-09:40-10:00",
		"24:00-25:00",
		"08:60-09:00",
		"-08:00",
	}
	for _, s := range cases {
		if _, err := Parse(s); !errors.Is(err, ErrMalformedTime) {
			t.Errorf("Parse(%q) 期望 ErrMalformedTime, 实际 %v", s, err)
		}
	}
}

func TestParse_UnpaddedAndSpaces(t *testing.T) {
	w, err := Parse("8:0 - 9:40")
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if w.Start != 480 || w.End != 580 {
		t.Errorf("期望 480/580, 实际 %+v", w)
	}
}

func TestIsWithin(t *testing.T) {
	tests := []struct {
		now, start, end int
		want            bool
	}{
		{540, 480, 580, true},  // 9:00 在 8:00–9:40 内
		{580, 480, 580, false}, // 结束时刻不含
		{480, 480, 580, true},  // 开始时刻含
		{479, 480, 580, false},
		{500, 600, 500, false}, // 倒置区间永不成立
		{600, 600, 600, false}, // 空区间
	}
	for _, tt := range tests {
		if got := IsWithin(tt.now, tt.start, tt.end); got != tt.want {
			t.Errorf("IsWithin(%d, %d, %d) = %v, want %v", tt.now, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestCompareByStart(t *testing.T) {
	if got := CompareByStart("08:00-09:40", "10:00-11:40"); got != -1 {
		t.Errorf("期望 -1, 实际 %d", got)
	}
	if got := CompareByStart("10:00-11:40", "08:00-09:40"); got != 1 {
		t.Errorf("期望 1, 实际 %d", got)
	}
	if got := CompareByStart("08:00-09:40", "08:00-10:00"); got != 0 {
		t.Errorf("同一开始时间期望 0, 实际 %d", got)
	}
	if got := CompareByStart("bad-data", "08:00-09:40"); got != 0 {
		t.Errorf("解析失败期望 0, 实际 %d", got)
	}
	if got := CompareByStart("08:00-09:40", "bad-data"); got != 0 {
		t.Errorf("解析失败期望 0, 实际 %d", got)
	}
}

func TestResult_Contains(t *testing.T) {
	if Lookup("bad-data").Contains(500) {
		t.Error("解析失败的时间段不应包含任何时刻")
	}
	if !Lookup("08:00-09:40").Contains(540) {
		t.Error("9:00 应在 8:00–9:40 内")
	}
}

func TestISOWeekday(t *testing.T) {
	// 2025-03-02 为周日, 2025-03-03 为周一
	sunday := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := ISOWeekday(sunday); got != 7 {
		t.Errorf("周日期望 7, 实际 %d", got)
	}
	if got := ISOWeekday(sunday.AddDate(0, 0, 1)); got != 1 {
		t.Errorf("周一期望 1, 实际 %d", got)
	}
	if got := ISOWeekday(sunday.AddDate(0, 0, 6)); got != 6 {
		t.Errorf("周六期望 6, 实际 %d", got)
	}
}

func TestMinutesOfDay(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	now := time.Date(2025, 3, 3, 9, 5, 30, 0, loc)
	if got := MinutesOfDay(now); got != 545 {
		t.Errorf("期望 545, 实际 %d", got)
	}
}

func TestFormatAndSplit(t *testing.T) {
	if got := Format("8", "0", "9", "5"); got != "08:00-09:05" {
		t.Errorf("期望 08:00-09:05, 实际 %s", got)
	}
	if got := Format("13", "30", "15", "05"); got != "13:30-15:05" {
		t.Errorf("期望 13:30-15:05, 实际 %s", got)
	}

	sh, sm, eh, em, ok := Split("08:00-09:40")
	if !ok || sh != "08" || sm != "00" || eh != "09" || em != "40" {
		t.Errorf("Split 结果错误: %s %s %s %s %v", sh, sm, eh, em, ok)
	}
	if _, _, _, _, ok := Split("bad-data"); ok {
		t.Error("Split(bad-data) 应失败")
	}
}

func TestCheckClock(t *testing.T) {
	valid := [][2]string{{"0", "0"}, {"00", "00"}, {"8", "5"}, {"23", "59"}, {" 9", "40 "}}
	for _, c := range valid {
		if err := CheckClock(c[0], c[1]); err != nil {
			t.Errorf("%q:%q 应合法, 实际 %v", c[0], c[1], err)
		}
	}

	invalid := [][2]string{{"-1", "00"}, {"+8", "00"}, {"24", "00"}, {"8", "60"}, {"99", "75"}, {"", "00"}, {"8", "1.5"}}
	for _, c := range invalid {
		if err := CheckClock(c[0], c[1]); !errors.Is(err, ErrMalformedTime) {
			t.Errorf("%q:%q 期望 ErrMalformedTime, 实际 %v", c[0], c[1], err)
		}
	}
}
