package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"uruti-hub/backend/internal/model"
)

// InternTaskRepository 任务分配数据访问接口
type InternTaskRepository interface {
	// Create 插入分配；(intern_id, task_id) 重复时返回唯一约束错误
	Create(ctx context.Context, it *model.InternTask) error
	GetByID(ctx context.Context, id string) (*model.InternTask, error)
	Exists(ctx context.Context, internID, taskID string) (bool, error)
	// ListWithStatusByIntern 列出实习生的全部分配及最近一次提交状态，按截止日期升序
	ListWithStatusByIntern(ctx context.Context, internID string) ([]model.AssignmentWithStatus, error)
	Count(ctx context.Context) (int64, error)
}

type internTaskRepo struct {
	db *gorm.DB
}

// NewInternTaskRepo 创建 InternTaskRepository 实例
func NewInternTaskRepo(db *gorm.DB) InternTaskRepository {
	return &internTaskRepo{db: db}
}

func (r *internTaskRepo) Create(ctx context.Context, it *model.InternTask) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *internTaskRepo) GetByID(ctx context.Context, id string) (*model.InternTask, error) {
	var it model.InternTask
	err := r.db.WithContext(ctx).
		Preload("Task").
		Preload("Intern").
		Where("intern_task_id = ?", id).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *internTaskRepo) Exists(ctx context.Context, internID, taskID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.InternTask{}).
		Where("intern_id = ? AND task_id = ?", internID, taskID).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// assignmentStatusRow 投影查询的扫描目标
type assignmentStatusRow struct {
	InternTaskID           string
	InternID               string
	TaskID                 string
	AssignedAt             time.Time
	Title                  string
	Description            *string
	DueDate                *time.Time
	LatestSubmissionID     *string
	LatestSubmissionStatus *string
	LatestSubmittedAt      *time.Time
	LatestAttempt          *int
}

const listWithStatusSQL = `
SELECT it.intern_task_id, it.intern_id, it.task_id, it.assigned_at,
       t.title, t.description, t.due_date,
       latest.submission_id AS latest_submission_id,
       latest.status        AS latest_submission_status,
       latest.submitted_at  AS latest_submitted_at,
       latest.attempt       AS latest_attempt
FROM intern_tasks it
JOIN tasks t ON t.task_id = it.task_id
LEFT JOIN LATERAL (
    SELECT s.submission_id, s.status, s.submitted_at, s.attempt
    FROM submissions s
    WHERE s.intern_task_id = it.intern_task_id
    ORDER BY s.attempt DESC
    LIMIT 1
) latest ON true
WHERE it.intern_id = ?
ORDER BY t.due_date ASC NULLS LAST, it.assigned_at ASC`

func (r *internTaskRepo) ListWithStatusByIntern(ctx context.Context, internID string) ([]model.AssignmentWithStatus, error) {
	var rows []assignmentStatusRow
	if err := r.db.WithContext(ctx).Raw(listWithStatusSQL, internID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]model.AssignmentWithStatus, 0, len(rows))
	for _, row := range rows {
		item := model.AssignmentWithStatus{
			InternTaskID:       row.InternTaskID,
			InternID:           row.InternID,
			TaskID:             row.TaskID,
			AssignedAt:         row.AssignedAt,
			Title:              row.Title,
			Description:        row.Description,
			DueDate:            row.DueDate,
			LatestSubmissionID: row.LatestSubmissionID,
			LatestSubmittedAt:  row.LatestSubmittedAt,
			LatestAttempt:      row.LatestAttempt,
		}
		if row.LatestSubmissionStatus != nil {
			st := model.SubmissionStatus(*row.LatestSubmissionStatus)
			item.LatestSubmissionStatus = &st
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *internTaskRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.InternTask{}).Count(&n).Error
	return n, err
}
