package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gpa-tracker/config"
	"gpa-tracker/internal/api/handler"
	"gpa-tracker/internal/api/middleware"
	"gpa-tracker/pkg/jwt"
	"gpa-tracker/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["status"], status["database"] = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "unreachable"
			}
		}
		c.JSON(code, status)
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，限流防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 学期与课程
			semesters := authorized.Group("/semesters")
			{
				semesters.GET("", h.Semester.ListSemesters)
				semesters.POST("", h.Semester.CreateSemester)
				semesters.GET("/:id", h.Semester.GetSemester)
				semesters.PUT("/:id", h.Semester.UpdateSemester)
				semesters.DELETE("/:id", h.Semester.DeleteSemester)

				semesters.POST("/:id/courses", h.Semester.AddCourse)
				semesters.PUT("/:id/courses/:course_id", h.Semester.UpdateCourse)
				semesters.DELETE("/:id/courses/:course_id", h.Semester.DeleteCourse)
			}

			// 总评与绩点表
			authorized.GET("/overview", h.Semester.GetOverview)
			authorized.GET("/grade-scale", h.Semester.GradeScale)

			// 计划课程
			planned := authorized.Group("/planned-modules")
			{
				planned.GET("", h.PlannedModule.List)
				planned.POST("", h.PlannedModule.Create)
				planned.PUT("", h.PlannedModule.ReplaceAll)
				planned.DELETE("/:id", h.PlannedModule.Delete)
				planned.POST("/:id/complete", h.PlannedModule.Complete)
				planned.POST("/import-ics", middleware.RateLimit(rdb, 10, time.Minute), h.PlannedModule.ImportICS)
			}

			// 目标绩点
			goals := authorized.Group("/goals")
			{
				goals.GET("", h.Goal.GetLatest)
				goals.POST("/projection", h.Goal.Project)
			}

			// 导入导出
			export := authorized.Group("/export")
			export.Use(middleware.RateLimit(rdb, 30, time.Minute))
			{
				export.GET("/json", h.Export.ExportJSON)
				export.GET("/transcript", h.Export.ExportTranscript)
			}
			authorized.POST("/import/json", middleware.RateLimit(rdb, 10, time.Minute), h.Export.ImportJSON)
		}
	}

	return r
}
