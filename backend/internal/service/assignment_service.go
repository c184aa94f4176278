package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/repository"
	pkgerrors "uruti-hub/backend/pkg/errors"
	"uruti-hub/backend/pkg/events"
)

// ── 任务分配模块业务错误 ──

var (
	ErrAssignNoInterns     = errors.New("至少需要指定一名实习生")
	ErrAssignmentExists    = errors.New("该实习生已分配此任务")
	ErrAssignmentNotFound  = errors.New("任务分配不存在")
	ErrAssignAllFailed     = errors.New("未能创建任何分配")
	errAssignCreateFailure = errors.New("创建分配失败")
)

// AssignFailedError 批量分配全部失败，携带逐项原因
type AssignFailedError struct {
	Errors []dto.AssignError
}

func (e *AssignFailedError) Error() string {
	return fmt.Sprintf("%s（%d 项）", ErrAssignAllFailed.Error(), len(e.Errors))
}

func (e *AssignFailedError) Unwrap() error { return ErrAssignAllFailed }

// AssignmentService 任务分配业务接口
type AssignmentService interface {
	// Assign 将一个任务分配给多名实习生；逐项独立处理，至少一项成功即返回 201
	Assign(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignResult, error)
	// AssignOne 单对分配
	AssignOne(ctx context.Context, internID, taskID string) (*dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo      *repository.Repository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, publisher events.Publisher, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, publisher: publisher, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Assign — 批量分配（允许部分成功）
// ═══════════════════════════════════════════════════════════

func (s *assignmentService) Assign(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignResult, error) {
	if len(req.InternIDs) == 0 {
		return nil, ErrAssignNoInterns
	}

	task, err := findTask(ctx, s.repo, s.logger, req.TaskID)
	if err != nil {
		return nil, err
	}

	result := &dto.AssignResult{Assignments: make([]dto.AssignmentResponse, 0, len(req.InternIDs))}
	for _, internID := range req.InternIDs {
		it, err := s.assign(ctx, internID, task.TaskID)
		if err != nil {
			result.Errors = append(result.Errors, dto.AssignError{
				InternID: internID,
				Message:  assignErrorMessage(err),
			})
			continue
		}
		result.Assignments = append(result.Assignments, toAssignmentResponse(it))
	}

	if len(result.Assignments) == 0 {
		return nil, &AssignFailedError{Errors: result.Errors}
	}

	s.logger.Info("批量分配完成",
		zap.String("task_id", task.TaskID),
		zap.Int("created", len(result.Assignments)),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}

// ═══════════════════════════════════════════════════════════
// AssignOne — 单对分配
// ═══════════════════════════════════════════════════════════

func (s *assignmentService) AssignOne(ctx context.Context, internID, taskID string) (*dto.AssignmentResponse, error) {
	task, err := findTask(ctx, s.repo, s.logger, taskID)
	if err != nil {
		return nil, err
	}

	it, err := s.assign(ctx, internID, task.TaskID)
	if err != nil {
		return nil, err
	}
	resp := toAssignmentResponse(it)
	return &resp, nil
}

// assign 任务已确认存在时的单项分配
func (s *assignmentService) assign(ctx context.Context, internID, taskID string) (*model.InternTask, error) {
	if !validID(internID) {
		return nil, ErrInternNotFound
	}
	if _, err := s.repo.Intern.GetByID(ctx, internID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInternNotFound
		}
		s.logger.Error("查询实习生失败", zap.String("intern_id", internID), zap.Error(err))
		return nil, err
	}

	// 快速路径；并发重复由唯一索引 (intern_id, task_id) 拦截
	exists, err := s.repo.InternTask.Exists(ctx, internID, taskID)
	if err != nil {
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAssignmentExists
	}

	it := &model.InternTask{InternID: internID, TaskID: taskID}
	if err := s.repo.InternTask.Create(ctx, it); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrAssignmentExists
		}
		s.logger.Error("创建分配失败",
			zap.String("intern_id", internID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type: events.TypeAssignmentCreated,
		Key:  it.InternTaskID,
		Data: map[string]string{
			"intern_task_id": it.InternTaskID,
			"intern_id":      internID,
			"task_id":        taskID,
		},
	})

	return it, nil
}

// assignErrorMessage 逐项错误对外文案，不泄露存储层细节
func assignErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInternNotFound):
		return ErrInternNotFound.Error()
	case errors.Is(err, ErrAssignmentExists):
		return ErrAssignmentExists.Error()
	default:
		return errAssignCreateFailure.Error()
	}
}
