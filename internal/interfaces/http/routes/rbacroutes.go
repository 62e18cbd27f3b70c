package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/wardgate/wardgate/internal/interfaces/http/handlers/rbac"
	"github.com/wardgate/wardgate/internal/interfaces/http/middleware"
)

// RBACRouteConfig holds dependencies for the /api/v1/rbac routes.
type RBACRouteConfig struct {
	Handler              *rbac.Handler
	PolicyHandler        *rbac.PolicyHandler              // nil when the casbin mirror is disabled
	AuthMiddleware       *middleware.AuthMiddleware       // nil when auth is disabled
	PermissionMiddleware *middleware.PermissionMiddleware // nil when auth is disabled
	RateLimit            gin.HandlerFunc                  // nil when rate limiting is disabled
}

// SetupRBACRoutes registers the administration API. With auth enabled every route
// requires a bearer token whose role holds the listed permission.
func SetupRBACRoutes(engine *gin.Engine, cfg *RBACRouteConfig) {
	api := engine.Group("/api/v1/rbac")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}
	if cfg.RateLimit != nil {
		api.Use(cfg.RateLimit)
	}

	require := func(resource, action string) gin.HandlerFunc {
		if cfg.PermissionMiddleware == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return cfg.PermissionMiddleware.RequirePermission(resource, action)
	}
	h := cfg.Handler

	templates := api.Group("/templates")
	{
		templates.GET("", require("permissions", "read"), h.ListTemplates)
		templates.POST("/derive", require("permissions", "read"), h.DeriveTemplate)
		templates.GET("/:name", require("permissions", "read"), h.DescribeTemplate)
	}

	api.GET("/permissions/available", require("permissions", "list"), h.AvailablePermissions)

	roles := api.Group("/roles")
	{
		// Named routes before /:id
		roles.GET("", require("roles", "list"), h.ListRoles)
		roles.POST("", require("roles", "create"), h.CreateRole)
		roles.POST("/from-template", require("roles", "create"), h.CreateRoleFromTemplate)
		roles.POST("/copy", require("permissions", "update"), h.CopyPermissions)

		roles.GET("/:id", require("roles", "read"), h.GetRole)
		roles.PATCH("/:id", require("roles", "update"), h.UpdateRole)
		roles.PATCH("/:id/status", require("roles", "update"), h.SetRoleStatus)
		roles.DELETE("/:id", require("roles", "delete"), h.DeleteRole)

		roles.GET("/:id/permissions", require("permissions", "read"), h.ListGrants)
		roles.POST("/:id/permissions", require("permissions", "update"), h.Grant)
		roles.PUT("/:id/permissions", require("permissions", "update"), h.SetGrantFlag)
		roles.POST("/:id/permissions/bulk", require("permissions", "update"), h.BulkGrant)
		roles.POST("/:id/permissions/bulk-revoke", require("permissions", "delete"), h.BulkRevoke)
		roles.DELETE("/:id/permissions/:code", require("permissions", "delete"), h.Revoke)
		roles.PATCH("/:id/permissions/:code/conditions", require("permissions", "update"), h.UpdateConditions)
		roles.POST("/:id/templates/:name", require("permissions", "update"), h.GrantTemplate)

		roles.GET("/:id/check", require("permissions", "read"), h.Check)
		roles.GET("/:id/matrix", require("permissions", "read"), h.PermissionMatrix)
		roles.GET("/:id/summary", require("permissions", "read"), h.PermissionSummary)
	}

	if cfg.PolicyHandler != nil {
		policy := api.Group("/policy")
		{
			policy.POST("/sync", require("permissions", "update"), cfg.PolicyHandler.Sync)
			policy.GET("/enforce", require("permissions", "read"), cfg.PolicyHandler.Enforce)
		}
	}
}
