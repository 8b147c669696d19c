package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greymaverick/PKP-app/config"
	"github.com/greymaverick/PKP-app/internal/api/handler"
	"github.com/greymaverick/PKP-app/internal/api/middleware"
	"github.com/greymaverick/PKP-app/pkg/jwt"
	"github.com/greymaverick/PKP-app/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login",
				middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateLimitWindow),
				h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 员工花名册（检查员录入时的下拉数据源）
			authorized.GET("/employees", h.Auth.ListEmployees)

			// 检查员模块
			examiners := authorized.Group("/examiners")
			{
				examiners.GET("", h.Examiner.ListExaminers)
				examiners.GET("/:id", h.Examiner.GetExaminer)
				examiners.POST("", h.Examiner.CreateExaminer)
				examiners.PUT("/:id", h.Examiner.UpdateExaminer)
				examiners.DELETE("/:id", h.Examiner.DeleteExaminer)
			}

			// 审计程序模块
			procedures := authorized.Group("/procedures")
			{
				procedures.GET("", h.Procedure.ListProcedures)
				procedures.POST("/query", h.Procedure.QueryProcedures)
				procedures.GET("/:id", h.Procedure.GetProcedure)
				procedures.POST("", h.Procedure.CreateProcedure)
				procedures.PUT("/:id", h.Procedure.UpdateProcedure)
				procedures.DELETE("/:id", h.Procedure.DeleteProcedure)
				procedures.POST("/:id/toggle-active", h.Procedure.ToggleActive)
				procedures.POST("/:id/toggle-stage", h.Procedure.ToggleStage)
				procedures.POST("/bulk/active", h.Procedure.BulkSetActive)
				procedures.POST("/bulk/stage", h.Procedure.BulkSetStage)
			}

			// 分配模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("/board", h.Assignment.Board)
				assignments.GET("/pool", h.Assignment.Pool)
				assignments.POST("", h.Assignment.AssignSingle)
				assignments.POST("/bulk", h.Assignment.AssignBulk)
				assignments.POST("/unassign", h.Assignment.Unassign)
			}

			// 导入模块
			imports := authorized.Group("/import")
			{
				imports.POST("/sync", h.Import.Sync)
				imports.POST("/upload", h.Import.Upload)
			}

			// 快照模块（.pkp 备份）
			snapshot := authorized.Group("/snapshot")
			{
				snapshot.GET("/export", h.Snapshot.Export)
				snapshot.POST("/restore", h.Snapshot.Restore)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/procedures", h.Export.ExportProcedureList)
				export.GET("/pkp", h.Export.ExportPKP)
			}

			// 项目元信息
			authorized.GET("/meta", h.Meta.Get)
			authorized.PUT("/meta", h.Meta.Update)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
