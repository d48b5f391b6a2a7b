package auth

import (
	"context"
	"net/http"
	"time"

	"authgate/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"

// SessionChecker answers whether a login session has been revoked.
type SessionChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Decision is the outcome of one authentication attempt, for audit.
type Decision struct {
	Granted   bool
	Code      ErrorCode
	TenantID  string
	UserUUID  string
	SessionID string
	Path      string
	IP        string
}

// DecisionRecorder receives authentication decisions. Recording is
// best-effort; implementations must not block request handling on failure.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, d Decision)
}

// MiddlewareConfig wires the authentication middleware.
type MiddlewareConfig struct {
	Verifier *Verifier

	// Sessions, when set, rejects tokens whose sessionId is on the
	// revocation deny-list. A store error denies (fail-closed).
	Sessions SessionChecker

	// Recorder, when set, receives every grant/reject decision.
	Recorder DecisionRecorder

	// Now overrides the clock. Tests only; defaults to time.Now.
	Now func() time.Time
}

// RequireAccessToken authenticates the request and injects verified claims
// into the request context. It does not perform role or permission checks;
// those belong to internal/rbac.
//
// Every authenticity failure gets the same generic 401 body. The distinct
// rejection code is logged and audited, never disclosed to the client, so
// the response cannot be used as an oracle for probing token state.
func RequireAccessToken(cfg MiddlewareConfig) gin.HandlerFunc {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		token, ok := ExtractBearerToken(c.GetHeader(authorizationHeader))
		if !ok {
			reject(c, cfg, Decision{Code: ErrCodeMissingToken})
			return
		}

		claims, err := cfg.Verifier.Verify(token, now())
		if err != nil {
			reject(c, cfg, Decision{Code: CodeOf(err)})
			return
		}

		if cfg.Sessions != nil && claims.SessionID != "" {
			revoked, err := cfg.Sessions.IsRevoked(c.Request.Context(), claims.SessionID)
			if err != nil || revoked {
				code := ErrCodeSessionRevoked
				if err != nil {
					code = ErrCodeInternal
				}
				reject(c, cfg, Decision{
					Code:      code,
					TenantID:  claims.TenantID,
					UserUUID:  claims.UserUUID,
					SessionID: claims.SessionID,
				})
				return
			}
		}

		if cfg.Recorder != nil {
			cfg.Recorder.RecordDecision(c.Request.Context(), Decision{
				Granted:   true,
				TenantID:  claims.TenantID,
				UserUUID:  claims.UserUUID,
				SessionID: claims.SessionID,
				Path:      c.FullPath(),
				IP:        c.ClientIP(),
			})
		}

		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

func reject(c *gin.Context, cfg MiddlewareConfig, d Decision) {
	d.Path = c.FullPath()
	if d.Path == "" {
		d.Path = c.Request.URL.Path
	}
	d.IP = c.ClientIP()

	logger.FromGin(c).Warn("token rejected", "code", string(d.Code), "path", d.Path)
	if cfg.Recorder != nil {
		cfg.Recorder.RecordDecision(c.Request.Context(), d)
	}

	// Generic body regardless of the internal reason.
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
}
