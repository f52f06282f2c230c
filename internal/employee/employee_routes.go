package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(rbacService, "employee", rbac.ActionRead), handler.GetAll)
		employees.GET("/options", middleware.RBACAuthorize(rbacService, "employee", rbac.ActionRead), handler.GetOptions)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, "employee", rbac.ActionRead), handler.GetById)
		employees.POST("", middleware.RBACAuthorize(rbacService, "employee", rbac.ActionManage), handler.Create)
		employees.PUT("/:id", middleware.RBACAuthorize(rbacService, "employee", rbac.ActionManage), handler.Update)
		employees.DELETE("/:id", middleware.RBACAuthorize(rbacService, "employee", rbac.ActionManage), handler.Delete)
	}
}
