package stats

import (
	"github.com/gin-gonic/gin"

	"github.com/sawa0358/hr-system-2025-sub003/internal/middleware"
	"github.com/sawa0358/hr-system-2025-sub003/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	stats := r.Group("/leave/employees")
	stats.Use(middleware.AuthMiddleware())
	{
		stats.GET("/:id/stats", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead), handler.GetByEmployee)
	}
}
