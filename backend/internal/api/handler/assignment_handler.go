package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/service"
	"uruti-hub/backend/pkg/response"
)

// AssignmentHandler 任务分配 HTTP 处理器
type AssignmentHandler struct {
	assignSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignSvc: assignSvc}
}

// CreateAssignments 将一个任务分配给多名实习生，允许部分成功
// POST /api/assignments
func (h *AssignmentHandler) CreateAssignments(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.assignSvc.Assign(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	var failed *service.AssignFailedError
	switch {
	case errors.As(err, &failed):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14002, "全部分配失败", failed.Errors)
	case errors.Is(err, service.ErrAssignNoInterns):
		response.BadRequest(c, 14001, "实习生列表不能为空")
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, 13001, "任务不存在")
	case errors.Is(err, service.ErrInternNotFound):
		response.NotFound(c, 12002, "实习生档案不存在")
	case errors.Is(err, service.ErrAssignmentExists):
		response.Conflict(c, 14003, "该任务已分配给此实习生")
	default:
		response.InternalError(c)
	}
}
