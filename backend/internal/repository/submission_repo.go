package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"uruti-hub/backend/internal/model"
)

// ReviewUpdate 审核写入参数
type ReviewUpdate struct {
	Status     model.SubmissionStatus
	Feedback   *string
	ReviewerID string
	ReviewedAt time.Time
	// OnlyPending 为 true 时仅在当前状态为 Pending Review 时更新（条件更新，防并发重复审核）
	OnlyPending bool
}

// SubmissionRepository 提交数据访问接口
type SubmissionRepository interface {
	// Create 插入提交；同一分配已有未驳回提交或 attempt 重复时返回唯一约束错误
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	// HasActive 分配下是否存在未被驳回的提交
	HasActive(ctx context.Context, internTaskID string) (bool, error)
	// MaxAttempt 分配下已有提交的最大 attempt，无提交时为 0
	MaxAttempt(ctx context.Context, internTaskID string) (int, error)
	// UpdateReview 写入审核结果，返回受影响行数
	UpdateReview(ctx context.Context, id string, upd ReviewUpdate) (int64, error)
	ListByStatus(ctx context.Context, status model.SubmissionStatus) ([]model.Submission, error)
	ListByIntern(ctx context.Context, internID string) ([]model.Submission, error)
	ListByInternTask(ctx context.Context, internTaskID string) ([]model.Submission, error)
	ListAll(ctx context.Context) ([]model.Submission, error)
	CountByStatus(ctx context.Context) (map[model.SubmissionStatus]int64, error)
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Preload("InternTask.Task").
		Preload("InternTask.Intern").
		Where("submission_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) HasActive(ctx context.Context, internTaskID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("intern_task_id = ? AND status <> ?", internTaskID, model.SubmissionDenied).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

func (r *submissionRepo) MaxAttempt(ctx context.Context, internTaskID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("COALESCE(MAX(attempt), 0)").
		Where("intern_task_id = ?", internTaskID).
		Scan(&max).Error
	return max, err
}

func (r *submissionRepo) UpdateReview(ctx context.Context, id string, upd ReviewUpdate) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ?", id)
	if upd.OnlyPending {
		q = q.Where("status = ?", model.SubmissionPendingReview)
	}
	res := q.Updates(map[string]interface{}{
		"status":      upd.Status,
		"feedback":    upd.Feedback,
		"reviewed_by": upd.ReviewerID,
		"reviewed_at": upd.ReviewedAt,
	})
	return res.RowsAffected, res.Error
}

// withDetails 预加载分配、实习生与任务信息
func (r *submissionRepo) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("InternTask.Task").
		Preload("InternTask.Intern")
}

func (r *submissionRepo) ListByStatus(ctx context.Context, status model.SubmissionStatus) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.withDetails(ctx).
		Where("status = ?", status).
		Order("submitted_at DESC").
		Find(&subs).Error
	return subs, err
}

// ListByIntern 实习生的全部提交：按分配分组，组内最新在前
func (r *submissionRepo) ListByIntern(ctx context.Context, internID string) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.withDetails(ctx).
		Joins("JOIN intern_tasks ON intern_tasks.intern_task_id = submissions.intern_task_id").
		Where("intern_tasks.intern_id = ?", internID).
		Order("submissions.intern_task_id, submissions.attempt DESC").
		Find(&subs).Error
	return subs, err
}

// ListByInternTask 单个分配的提交历史，按 attempt 升序
func (r *submissionRepo) ListByInternTask(ctx context.Context, internTaskID string) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.withDetails(ctx).
		Where("intern_task_id = ?", internTaskID).
		Order("attempt ASC").
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepo) ListAll(ctx context.Context) ([]model.Submission, error) {
	var subs []model.Submission
	err := r.withDetails(ctx).
		Order("submitted_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepo) CountByStatus(ctx context.Context) (map[model.SubmissionStatus]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[model.SubmissionStatus]int64, len(rows))
	for _, row := range rows {
		result[model.SubmissionStatus(row.Status)] = row.N
	}
	return result, nil
}
