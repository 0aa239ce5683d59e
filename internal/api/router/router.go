package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/api/handler"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/api/middleware"
)

// Setup 组装 gin 引擎与路由
func Setup(h *handler.Handler, logger *zap.Logger) *gin.Engine {
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		gin.Recovery(),
	)

	v1 := engine.Group("/api/v1")
	{
		v1.GET("/courses", h.ListCourses)
		v1.GET("/courses/:code/:class", h.GetCourse)
		v1.GET("/diagnostics", h.Diagnostics)
		v1.POST("/selection/check", h.CheckSelection)
	}

	return engine
}
