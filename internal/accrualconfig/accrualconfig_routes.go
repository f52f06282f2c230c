package accrualconfig

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
	configs := r.Group("/leave/config")
	configs.Use(middleware.AuthMiddleware())
	{
		configs.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveConfig, rbac.ActionRead), handler.Get)
		configs.GET("/versions", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveConfig, rbac.ActionRead), handler.List)
		configs.PUT("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveConfig, rbac.ActionManage), handler.Save)
		configs.POST("/:version/activate", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveConfig, rbac.ActionManage), handler.Activate)
	}
}
