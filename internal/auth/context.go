package auth

import (
	"context"
	"errors"
)

type claimsKey struct{}

// WithClaims stores verified claims in the context for downstream handlers.
// Claims travel as an explicit context value, never as process-wide state.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext retrieves claims previously stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// TenantID returns the tenant the request's token was issued for.
func TenantID(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.TenantID == "" {
		return "", errors.New("tenantId not in context")
	}
	return claims.TenantID, nil
}

// UserUUID returns the stable principal identifier from the request context.
func UserUUID(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UserUUID == "" {
		return "", errors.New("userUuid not in context")
	}
	return claims.UserUUID, nil
}

// SessionID returns the login session identifier from the request context.
func SessionID(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.SessionID == "" {
		return "", errors.New("sessionId not in context")
	}
	return claims.SessionID, nil
}
