package httpapi

import (
	"net/http"
	"time"

	"authgate/internal/auth"
	"authgate/internal/reporting"
	"authgate/internal/session"
	"authgate/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Verifier      *auth.Verifier
	Sessions      session.Store
	Reporting     *reporting.Service
	RevocationTTL time.Duration
}

// --- Identity ---

// Me returns the verified identity attached to the request context.
func (h Handlers) Me(c *gin.Context) {
	claims, ok := auth.ClaimsFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	grant := claims.Authorization[claims.TenantID]
	c.JSON(http.StatusOK, gin.H{
		"tenant_id":    claims.TenantID,
		"user_id":      claims.UserID,
		"user_uuid":    claims.UserUUID,
		"mode":         claims.Mode,
		"is_confirmed": claims.IsConfirmed,
		"session_id":   claims.SessionID,
		"roles":        grant.Roles,
		"permissions":  grant.Permissions,
	})
}

// --- Sessions ---

type revokeSessionRequest struct {
	SessionID string `json:"session_id"`
}

// RevokeSession puts a login session on the deny-list. Every outstanding
// token minted for that session is rejected from the next request on.
// RBAC: admin role, wired in routes.
func (h Handlers) RevokeSession(c *gin.Context) {
	if h.Sessions == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session revocation not configured"})
		return
	}
	var req revokeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.SessionID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "session_id required"})
		return
	}

	ttl := h.RevocationTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if err := h.Sessions.Revoke(c.Request.Context(), req.SessionID, ttl); err != nil {
		logger.FromGin(c).Error("session revoke failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "revoke failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Key rotation ---

type rotateKeyRequest struct {
	PublicKeyPEM string `json:"public_key_pem"`
}

// RotateKey swaps the verification key after the issuer rotates its signing
// key. The swap is atomic; in-flight verifications keep the key they loaded.
// RBAC: admin role, wired in routes.
func (h Handlers) RotateKey(c *gin.Context) {
	if h.Verifier == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "verifier not configured"})
		return
	}
	var req rotateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	pub, err := auth.LoadPublicKey([]byte(req.PublicKeyPEM))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid public key"})
		return
	}
	if err := h.Verifier.SetKey(pub); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "key rotation failed"})
		return
	}
	logger.FromGin(c).Info("verification key rotated")
	c.Status(http.StatusNoContent)
}

// --- Reporting ---

// DecisionSummary returns aggregated authentication outcomes for the
// caller's tenant. Query params from/to are RFC 3339 timestamps.
func (h Handlers) DecisionSummary(c *gin.Context) {
	if h.Reporting == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "reporting not configured"})
		return
	}
	tenantID, err := auth.TenantID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from must be RFC 3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "to must be RFC 3339"})
		return
	}

	summary, err := h.Reporting.DecisionSummary(c.Request.Context(), reporting.DecisionSummaryRequest{
		TenantID: tenantID,
		Range:    reporting.TimeRange{From: from, To: to},
	})
	if err != nil {
		if err == reporting.ErrInvalidRequest {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid range"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
