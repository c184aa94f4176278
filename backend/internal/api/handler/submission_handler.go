package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/internal/service"
	"uruti-hub/backend/pkg/response"
)

// SubmissionHandler 提交与审核 HTTP 处理器
type SubmissionHandler struct {
	subSvc service.SubmissionService
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(subSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{subSvc: subSvc}
}

// ────── 实习生 ──────

// Submit 提交作业
// POST /api/intern_tasks/:id/submit
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sub, err := h.subSvc.Submit(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.Created(c, sub)
}

// ListMine 当前实习生的全部提交
// GET /api/interns/me/submissions
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	subs, err := h.subSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, subs)
}

// ListMyTasks 当前实习生的任务及最近提交状态
// GET /api/interns/me/tasks
func (h *SubmissionHandler) ListMyTasks(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tasks, err := h.subSvc.ListMyTasks(c.Request.Context(), userID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, tasks)
}

// History 某个分配的提交历史（管理员或所属实习生）
// GET /api/intern_tasks/:id/submissions
func (h *SubmissionHandler) History(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	subs, err := h.subSvc.History(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, subs)
}

// ────── 管理员 ──────

// ListPending 待审核提交
// GET /api/submissions/pending
func (h *SubmissionHandler) ListPending(c *gin.Context) {
	subs, err := h.subSvc.ListPending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, subs)
}

// Approve 通过提交，反馈可选
// PUT /api/submissions/:id/approve
func (h *SubmissionHandler) Approve(c *gin.Context) {
	var req dto.ReviewRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.review(c, model.SubmissionApproved, req.Feedback)
}

// Deny 驳回提交，反馈必填
// PUT /api/submissions/:id/deny
func (h *SubmissionHandler) Deny(c *gin.Context) {
	var req dto.ReviewRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.review(c, model.SubmissionDenied, req.Feedback)
}

func (h *SubmissionHandler) review(c *gin.Context, decision model.SubmissionStatus, feedback *string) {
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	sub, err := h.subSvc.Review(c.Request.Context(), c.Param("id"), decision, feedback, reviewerID)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	response.OK(c, sub)
}

func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubmissionLinkRequired):
		response.BadRequest(c, 15001, "提交链接不能为空")
	case errors.Is(err, service.ErrSubmissionNotOwner):
		response.Forbidden(c, 15002, "无权操作该任务分配")
	case errors.Is(err, service.ErrSubmissionExists):
		response.Conflict(c, 15003, "该任务已有待审核或已通过的提交")
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 15004, "提交不存在")
	case errors.Is(err, service.ErrFeedbackRequired):
		response.BadRequest(c, 15005, "驳回时必须填写反馈")
	case errors.Is(err, service.ErrInvalidDecision):
		response.BadRequest(c, 15006, "审核结果无效")
	case errors.Is(err, service.ErrSubmissionReviewed):
		response.Conflict(c, 15007, "该提交已审核")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 14004, "任务分配不存在")
	case errors.Is(err, service.ErrInternNotFound):
		response.NotFound(c, 12002, "实习生档案不存在")
	default:
		response.InternalError(c)
	}
}
