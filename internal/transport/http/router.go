// Package httptransport wires gin routers for both binaries, grounded on
// the teacher's internal/http/router.go middleware stack.
package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/shiftsched/workforce/internal/health"
	"github.com/shiftsched/workforce/internal/transport/http/handler"
	"github.com/shiftsched/workforce/internal/transport/http/middleware"
)

func baseRouter(logger *slog.Logger, checker *health.Checker) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, checker.Liveness(c.Request.Context())) })
	r.GET("/readyz", func(c *gin.Context) {
		result := checker.Readiness(c.Request.Context())
		status := 200
		if result.Status != "up" {
			status = 503
		}
		c.JSON(status, result)
	})

	return r
}

// NewDataServiceRouter exposes the data service's sole HTTP operation:
// the resolved-membership query (§6.2).
func NewDataServiceRouter(logger *slog.Logger, checker *health.Checker, resolvedMembers *handler.ResolvedMembersHandler) *gin.Engine {
	r := baseRouter(logger, checker)

	v1 := r.Group("/api/v1")
	v1.GET("/groups/:id/resolved-members", resolvedMembers.Get)

	return r
}

// NewSchedulingRouter exposes the scheduling service's job pipeline
// endpoints (§6.1).
func NewSchedulingRouter(logger *slog.Logger, checker *health.Checker, scheduleHandler *handler.ScheduleHandler) *gin.Engine {
	r := baseRouter(logger, checker)

	v1 := r.Group("/api/v1")
	v1.POST("/schedules", scheduleHandler.Create)
	v1.GET("/schedules/:id/status", scheduleHandler.Status)
	v1.GET("/schedules/:id", scheduleHandler.Result)

	return r
}
