package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/repository"
	"uruti-hub/backend/pkg/markdown"
)

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound       = errors.New("任务不存在")
	ErrTaskTitleRequired  = errors.New("任务标题不能为空")
	ErrTaskDueDateInvalid = errors.New("截止日期格式无效，应为 YYYY-MM-DD")
)

// TaskService 任务业务接口
// 任务创建后不可修改
type TaskService interface {
	Create(ctx context.Context, req *dto.CreateTaskRequest, adminID string) (*dto.TaskResponse, error)
	List(ctx context.Context) ([]dto.TaskResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TaskResponse, error)
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest, adminID string) (*dto.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}

	var due *time.Time
	if !isBlank(req.DueDate) {
		d, err := time.Parse(dateLayout, strings.TrimSpace(*req.DueDate))
		if err != nil {
			return nil, ErrTaskDueDateInvalid
		}
		due = &d
	}

	task := &model.Task{
		Title:       title,
		Description: trimmedOrNil(req.Description),
		DueDate:     due,
		AssignedBy:  adminID,
	}
	if err := s.repo.Task.Create(ctx, task); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	return toTaskResponse(task), nil
}

func (s *taskService) List(ctx context.Context) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.Task.List(ctx)
	if err != nil {
		s.logger.Error("列出任务失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, *toTaskResponse(&tasks[i]))
	}
	return result, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*dto.TaskResponse, error) {
	task, err := findTask(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func findTask(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Task, error) {
	if !validID(id) {
		return nil, ErrTaskNotFound
	}
	task, err := repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func toTaskResponse(t *model.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:          t.TaskID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     formatDatePtr(t.DueDate),
		AssignedBy:  t.AssignedBy,
		CreatedAt:   formatTime(t.CreatedAt),
	}
	if t.Description != nil {
		resp.DescriptionHTML = markdown.ToHTML(*t.Description)
	}
	return resp
}
