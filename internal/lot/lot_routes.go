package lot

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
	lots := r.Group("/leave/lots")
	lots.Use(middleware.AuthMiddleware())
	{
		lots.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveLot, rbac.ActionRead), handler.GetByEmployee)
		lots.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveLot, rbac.ActionGrant), handler.Grant)
		lots.POST("/backfill", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveLot, rbac.ActionGrant), handler.Backfill)
	}
}
