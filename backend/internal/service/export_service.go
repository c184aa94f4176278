package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"uruti-hub/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成导出文件失败")

const calendarProductID = "-//uruti-hub//intern tasks//ZH"

// ExportService 导出业务接口
//
//   - 提交记录导出为 Excel (.xlsx)，供管理员离线归档
//   - 实习生任务截止日期导出为 iCalendar，可订阅到日历客户端
//
// 导出内容以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	ExportSubmissions(ctx context.Context) (*bytes.Buffer, string, error)
	InternCalendar(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, now: time.Now, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportSubmissions — 导出全部提交为 Excel
// ═══════════════════════════════════════════════════════════
//
// 单 Sheet "提交记录"，每行一次提交：
// | 实习生 | 任务 | 第几次 | 状态 | 提交链接 | 备注 | 反馈 | 提交时间 | 审核时间 |

var submissionHeaders = []string{"实习生", "任务", "第几次", "状态", "提交链接", "备注", "反馈", "提交时间", "审核时间"}

func (s *exportService) ExportSubmissions(ctx context.Context) (*bytes.Buffer, string, error) {
	subs, err := s.repo.Submission.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "提交记录"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "B", 20)
	f.SetColWidth(sheetName, "C", "D", 14)
	f.SetColWidth(sheetName, "E", "G", 36)
	f.SetColWidth(sheetName, "H", "I", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range submissionHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(submissionHeaders)-1), 1), headerStyle)

	for i := range subs {
		r := toSubmissionResponse(&subs[i])
		row := i + 2
		values := []interface{}{
			r.InternName,
			r.TaskTitle,
			r.Attempt,
			r.Status,
			r.SubmissionLink,
			derefOrDash(r.Comments),
			derefOrDash(r.Feedback),
			r.SubmittedAt,
			derefOrDash(r.ReviewedAt),
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("提交记录_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// InternCalendar — 实习生任务日历
// ═══════════════════════════════════════════════════════════
//
// 每个有截止日期的分配生成一个全天 VEVENT，UID 为 intern_task_id，
// 客户端重复订阅时按 UID 去重。

func (s *exportService) InternCalendar(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	intern, err := resolveIntern(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, "", err
	}

	rows, err := s.repo.InternTask.ListWithStatusByIntern(ctx, intern.InternID)
	if err != nil {
		s.logger.Error("列出实习生任务失败", zap.String("intern_id", intern.InternID), zap.Error(err))
		return nil, "", err
	}

	now := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(fmt.Sprintf("%s 的实习任务", intern.Name))

	for _, row := range rows {
		if row.DueDate == nil {
			continue
		}
		due := *row.DueDate

		evt := cal.AddEvent(row.InternTaskID + "@uruti-hub")
		evt.SetDtStampTime(now)
		evt.SetAllDayStartAt(due)
		evt.SetAllDayEndAt(due.AddDate(0, 0, 1))
		evt.SetSummary(row.Title)
		if row.Description != nil {
			evt.SetDescription(*row.Description)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "tasks.ics", nil
}

// ── Excel 辅助函数 ──

// colName 0-based 列号 → Excel 列名
func colName(i int) string {
	name, _ := excelize.ColumnNumberToName(i + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func derefOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
