package auth

import "github.com/golang-jwt/jwt/v5"

// TenantAuthorization is the per-tenant grant record carried inside a token.
// Roles and permissions are flat string sets; membership is checked by
// internal/rbac, never here.
type TenantAuthorization struct {
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Claims are the only supported JWT claims shape for this service.
//
// Trust invariant: a Claims value must only ever be produced by
// Verifier.Verify. Decoding a token payload without signature verification
// is trivial, and a payload obtained that way must never reach an
// authorization decision.
type Claims struct {
	jwt.RegisteredClaims

	// Mode is the issuer environment tag ("test" or "live"). Informational.
	Mode string `json:"mode,omitempty"`

	// TenantID identifies the tenant the token was issued for.
	TenantID string `json:"tenantId"`

	UserID   int64  `json:"userId,omitempty"`
	UserUUID string `json:"userUuid,omitempty"`

	// IsConfirmed reports whether the principal's identity (e.g. email)
	// has been confirmed by the issuer.
	IsConfirmed bool `json:"isConfirmed,omitempty"`

	// Authorization maps tenant IDs to grant records. A principal may hold
	// standing in tenants other than TenantID.
	Authorization map[string]TenantAuthorization `json:"authorization,omitempty"`

	// SessionID correlates the token to a login session for revocation
	// and audit. It is not structurally validated here.
	SessionID string `json:"sessionId,omitempty"`
}
