package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/service"
	"uruti-hub/backend/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// CreateTask 创建任务，assigned_by 为当前管理员
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	adminID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), &req, adminID)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.Created(c, task)
}

// ListTasks 获取任务列表
// GET /api/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, tasks)
}

// GetTask 获取任务详情
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTaskError(c, err)
		return
	}

	response.OK(c, task)
}

func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 13001, "任务不存在")
	case errors.Is(err, service.ErrTaskTitleRequired):
		response.BadRequest(c, 13002, "任务标题不能为空")
	case errors.Is(err, service.ErrTaskDueDateInvalid):
		response.BadRequest(c, 13003, "截止日期格式应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
