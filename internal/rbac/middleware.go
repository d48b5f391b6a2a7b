package rbac

import (
	"net/http"

	"authgate/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireTenant enforces that the caller has some standing in the tenant the
// token was issued for. It assumes auth.RequireAccessToken ran earlier in
// the chain; a request without verified claims gets 401.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !Authorize(claims, claims.TenantID, "", "") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireRole allows the request only if the caller holds role in the
// token's tenant. Denied callers get 403; the body never says which check
// failed.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !Authorize(claims, claims.TenantID, role, "") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequirePermission allows the request only if the caller holds permission
// in the token's tenant.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if !Authorize(claims, claims.TenantID, "", permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
