package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uruti-hub/backend/internal/dto"
	"uruti-hub/backend/internal/service"
	"uruti-hub/backend/pkg/response"
)

// InternHandler 实习生模块 HTTP 处理器
type InternHandler struct {
	internSvc service.InternService
}

// NewInternHandler 创建 InternHandler
func NewInternHandler(internSvc service.InternService) *InternHandler {
	return &InternHandler{internSvc: internSvc}
}

// CreateIntern 创建实习生（账号 + 档案）
// POST /api/interns
func (h *InternHandler) CreateIntern(c *gin.Context) {
	var req dto.CreateInternRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.internSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleInternError(c, err)
		return
	}

	response.Created(c, result)
}

// ListInterns 获取实习生列表
// GET /api/interns
func (h *InternHandler) ListInterns(c *gin.Context) {
	interns, err := h.internSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, interns)
}

// GetMyProfile 当前实习生的档案
// GET /api/interns/me
func (h *InternHandler) GetMyProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.internSvc.GetMine(c.Request.Context(), userID)
	if err != nil {
		h.handleInternError(c, err)
		return
	}

	response.OK(c, profile)
}

func (h *InternHandler) handleInternError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 12001, "邮箱已被注册")
	case errors.Is(err, service.ErrInternNotFound):
		response.NotFound(c, 12002, "实习生档案不存在")
	case errors.Is(err, service.ErrInternNameRequired):
		response.BadRequest(c, 12003, "姓名不能为空")
	case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
		response.BadRequest(c, 10001, "参数校验失败")
	default:
		response.InternalError(c)
	}
}
