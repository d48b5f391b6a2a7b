package main

import (
	"authgate/internal/httpapi"
	"authgate/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, authMW gin.HandlerFunc, h httpapi.Handlers) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// protected API group: everything below requires a verified token
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		v1.GET("/me", h.Me)

		// Reporting: any standing in the tenant is enough to see the
		// tenant's own decision summary.
		reports := v1.Group("/reports")
		reports.Use(rbac.RequireTenant())
		{
			reports.GET("/decisions", h.DecisionSummary)
		}

		// ADMIN routes: admin role in the token's tenant.
		admin := v1.Group("/admin")
		admin.Use(rbac.RequireRole("admin"))
		{
			admin.GET("/ping", func(c *gin.Context) {
				c.JSON(200, gin.H{"status": "ok"})
			})
			admin.POST("/sessions/revoke", h.RevokeSession)
			admin.POST("/keys/rotate", h.RotateKey)
		}
	}
}
