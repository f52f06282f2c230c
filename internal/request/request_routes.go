package request

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
	requests := r.Group("/leave/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead), handler.GetAll)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionRead), handler.GetById)
		requests.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionCreate), handler.Create)
		requests.POST("/:id/approve", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionApprove), handler.Approve)
		requests.POST("/:id/reject", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionApprove), handler.Reject)
		// Force semantics are enforced in the service; the route only
		// needs base access since owners may edit their PENDING requests.
		requests.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionCreate), handler.Update)
		requests.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveRequest, rbac.ActionCreate), handler.Delete)
	}
}
