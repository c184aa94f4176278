package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uruti-hub/backend/internal/service"
	"uruti-hub/backend/pkg/response"
)

// DashboardHandler 统计面板 HTTP 处理器
type DashboardHandler struct {
	dashSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashSvc: dashSvc}
}

// AdminStats GET /api/dashboard/admin
func (h *DashboardHandler) AdminStats(c *gin.Context) {
	stats, err := h.dashSvc.AdminStats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// InternStats GET /api/dashboard/intern
func (h *DashboardHandler) InternStats(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	stats, err := h.dashSvc.InternStats(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrInternNotFound) {
			response.NotFound(c, 12002, "实习生档案不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}
