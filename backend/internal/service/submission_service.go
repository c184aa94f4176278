package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uruti-hub/backend/config"
	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/repository"
	pkgerrors "uruti-hub/backend/pkg/errors"
	"uruti-hub/backend/pkg/events"
)

// ── 提交与审核模块业务错误 ──

var (
	ErrSubmissionLinkRequired = errors.New("提交链接不能为空")
	ErrSubmissionNotOwner     = errors.New("无权操作此任务分配")
	ErrSubmissionExists       = errors.New("该任务已有待审核或已通过的提交")
	ErrSubmissionNotFound     = errors.New("提交不存在")
	ErrFeedbackRequired       = errors.New("驳回提交时必须填写反馈")
	ErrInvalidDecision        = errors.New("无效的审核结论")
	ErrSubmissionReviewed     = errors.New("提交已审核，不可重复审核")
)

// SubmissionService 提交与审核业务接口
//
// 状态机：
//   - Pending Review → Approved（终态）
//   - Pending Review → Denied（可针对同一分配重新提交，attempt 递增）
type SubmissionService interface {
	Submit(ctx context.Context, internTaskID, callerUserID string, req *dto.SubmitRequest) (*dto.SubmissionResponse, error)
	Review(ctx context.Context, id string, decision model.SubmissionStatus, feedback *string, reviewerID string) (*dto.SubmissionResponse, error)
	ListPending(ctx context.Context) ([]dto.SubmissionResponse, error)
	// ListMine 实习生的全部提交，按分配分组，组内最新在前
	ListMine(ctx context.Context, userID string) ([]dto.SubmissionResponse, error)
	// History 单个分配的提交历史，按 attempt 升序；管理员或分配所属实习生可查
	History(ctx context.Context, internTaskID, callerID string, callerRole model.Role) ([]dto.SubmissionResponse, error)
	// ListMyTasks 实习生的任务列表及最近一次提交状态，按截止日期升序（无截止日期排最后）
	ListMyTasks(ctx context.Context, userID string) ([]dto.MyTaskResponse, error)
}

type submissionService struct {
	repo         *repository.Repository
	publisher    events.Publisher
	strictReview bool
	now          func() time.Time
	logger       *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(
	cfg *config.Config,
	repo *repository.Repository,
	publisher events.Publisher,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		repo:         repo,
		publisher:    publisher,
		strictReview: cfg.Feature.StrictReview,
		now:          time.Now,
		logger:       logger,
	}
}

// ═══════════════════════════════════════════════════════════
// Submit — 实习生提交作业
// ═══════════════════════════════════════════════════════════
//
// 校验顺序：链接非空 → 分配存在 → 归属本人 → 无未驳回提交

func (s *submissionService) Submit(ctx context.Context, internTaskID, callerUserID string, req *dto.SubmitRequest) (*dto.SubmissionResponse, error) {
	link := strings.TrimSpace(req.SubmissionLink)
	if link == "" {
		return nil, ErrSubmissionLinkRequired
	}

	it, err := s.findAssignment(ctx, internTaskID)
	if err != nil {
		return nil, err
	}

	intern, err := resolveIntern(ctx, s.repo, s.logger, callerUserID)
	if err != nil {
		if errors.Is(err, ErrInternNotFound) {
			return nil, ErrSubmissionNotOwner
		}
		return nil, err
	}
	if it.InternID != intern.InternID {
		return nil, ErrSubmissionNotOwner
	}

	// 快速路径；并发提交由部分唯一索引 (intern_task_id) WHERE status <> 'Denied' 拦截
	active, err := s.repo.Submission.HasActive(ctx, it.InternTaskID)
	if err != nil {
		s.logger.Error("查询提交失败", zap.Error(err))
		return nil, err
	}
	if active {
		return nil, ErrSubmissionExists
	}

	maxAttempt, err := s.repo.Submission.MaxAttempt(ctx, it.InternTaskID)
	if err != nil {
		s.logger.Error("查询提交次数失败", zap.Error(err))
		return nil, err
	}

	sub := &model.Submission{
		InternTaskID:   it.InternTaskID,
		Attempt:        maxAttempt + 1,
		SubmissionLink: link,
		Comments:       trimmedOrNil(req.Comments),
		Status:         model.SubmissionPendingReview,
		SubmittedAt:    s.now().UTC(),
	}
	if err := s.repo.Submission.Create(ctx, sub); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrSubmissionExists
		}
		s.logger.Error("创建提交失败", zap.String("intern_task_id", it.InternTaskID), zap.Error(err))
		return nil, err
	}
	sub.InternTask = it

	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type: events.TypeSubmissionCreated,
		Key:  it.InternTaskID,
		Data: map[string]string{
			"submission_id":  sub.SubmissionID,
			"intern_task_id": it.InternTaskID,
			"intern_id":      it.InternID,
			"attempt":        strconv.Itoa(sub.Attempt),
		},
	})

	resp := toSubmissionResponse(sub)
	return &resp, nil
}

// ═══════════════════════════════════════════════════════════
// Review — 管理员审核
// ═══════════════════════════════════════════════════════════
//
// strictReview=false 时允许对已审核提交再次审核（覆盖审核人与时间）；
// strictReview=true 时仅 Pending Review 可审核，采用条件更新防止并发重复审核。

func (s *submissionService) Review(ctx context.Context, id string, decision model.SubmissionStatus, feedback *string, reviewerID string) (*dto.SubmissionResponse, error) {
	if !decision.IsReviewDecision() {
		return nil, ErrInvalidDecision
	}
	fb := trimmedOrNil(feedback)
	if decision == model.SubmissionDenied && fb == nil {
		return nil, ErrFeedbackRequired
	}

	sub, err := s.findSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.strictReview && sub.Status != model.SubmissionPendingReview {
		return nil, ErrSubmissionReviewed
	}

	n, err := s.repo.Submission.UpdateReview(ctx, sub.SubmissionID, repository.ReviewUpdate{
		Status:      decision,
		Feedback:    fb,
		ReviewerID:  reviewerID,
		ReviewedAt:  s.now().UTC(),
		OnlyPending: s.strictReview,
	})
	if err != nil {
		// 重新通过旧的已驳回提交时，若该分配已有新的有效提交，会触发部分唯一索引
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrSubmissionExists
		}
		s.logger.Error("更新审核结果失败", zap.String("submission_id", id), zap.Error(err))
		return nil, err
	}
	if n == 0 {
		if s.strictReview {
			return nil, ErrSubmissionReviewed
		}
		return nil, ErrSubmissionNotFound
	}

	updated, err := s.findSubmission(ctx, sub.SubmissionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("提交已审核",
		zap.String("submission_id", updated.SubmissionID),
		zap.String("status", string(updated.Status)),
		zap.String("reviewer_id", reviewerID),
	)
	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type: events.TypeSubmissionReviewed,
		Key:  updated.InternTaskID,
		Data: map[string]string{
			"submission_id":  updated.SubmissionID,
			"intern_task_id": updated.InternTaskID,
			"status":         string(updated.Status),
			"reviewed_by":    reviewerID,
		},
	})

	resp := toSubmissionResponse(updated)
	return &resp, nil
}

// ═══════════════════════════════════════════════════════════
// 查询
// ═══════════════════════════════════════════════════════════

func (s *submissionService) ListPending(ctx context.Context) ([]dto.SubmissionResponse, error) {
	subs, err := s.repo.Submission.ListByStatus(ctx, model.SubmissionPendingReview)
	if err != nil {
		s.logger.Error("列出待审核提交失败", zap.Error(err))
		return nil, err
	}
	return toSubmissionResponses(subs), nil
}

func (s *submissionService) ListMine(ctx context.Context, userID string) ([]dto.SubmissionResponse, error) {
	intern, err := resolveIntern(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}

	subs, err := s.repo.Submission.ListByIntern(ctx, intern.InternID)
	if err != nil {
		s.logger.Error("列出实习生提交失败", zap.String("intern_id", intern.InternID), zap.Error(err))
		return nil, err
	}
	return toSubmissionResponses(subs), nil
}

func (s *submissionService) History(ctx context.Context, internTaskID, callerID string, callerRole model.Role) ([]dto.SubmissionResponse, error) {
	it, err := s.findAssignment(ctx, internTaskID)
	if err != nil {
		return nil, err
	}

	switch callerRole {
	case model.RoleAdmin:
		// 管理员可查看任意分配
	case model.RoleIntern:
		intern, err := resolveIntern(ctx, s.repo, s.logger, callerID)
		if err != nil {
			if errors.Is(err, ErrInternNotFound) {
				return nil, ErrSubmissionNotOwner
			}
			return nil, err
		}
		if intern.InternID != it.InternID {
			return nil, ErrSubmissionNotOwner
		}
	default:
		return nil, ErrSubmissionNotOwner
	}

	subs, err := s.repo.Submission.ListByInternTask(ctx, it.InternTaskID)
	if err != nil {
		s.logger.Error("查询提交历史失败", zap.String("intern_task_id", it.InternTaskID), zap.Error(err))
		return nil, err
	}
	return toSubmissionResponses(subs), nil
}

func (s *submissionService) ListMyTasks(ctx context.Context, userID string) ([]dto.MyTaskResponse, error) {
	intern, err := resolveIntern(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.InternTask.ListWithStatusByIntern(ctx, intern.InternID)
	if err != nil {
		s.logger.Error("列出实习生任务失败", zap.String("intern_id", intern.InternID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.MyTaskResponse, 0, len(rows))
	for _, row := range rows {
		status := model.StatusNotStarted
		if row.LatestSubmissionStatus != nil {
			status = string(*row.LatestSubmissionStatus)
		}
		result = append(result, dto.MyTaskResponse{
			InternTaskID:       row.InternTaskID,
			TaskID:             row.TaskID,
			Title:              row.Title,
			Description:        row.Description,
			DueDate:            formatDatePtr(row.DueDate),
			AssignedAt:         formatTime(row.AssignedAt),
			Status:             status,
			LatestSubmissionID: row.LatestSubmissionID,
			LatestAttempt:      row.LatestAttempt,
			LatestSubmittedAt:  formatTimePtr(row.LatestSubmittedAt),
		})
	}
	return result, nil
}

// ── 内部辅助 ──

func (s *submissionService) findAssignment(ctx context.Context, id string) (*model.InternTask, error) {
	if !validID(id) {
		return nil, ErrAssignmentNotFound
	}
	it, err := s.repo.InternTask.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询任务分配失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return it, nil
}

func (s *submissionService) findSubmission(ctx context.Context, id string) (*model.Submission, error) {
	if !validID(id) {
		return nil, ErrSubmissionNotFound
	}
	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sub, nil
}
