package rbac

import "authgate/internal/auth"

// Authorize decides whether the principal behind verified claims has
// standing in tenantID, optionally holding requiredRole and/or
// requiredPermission there. Empty strings mean "not required".
//
// Policy is fail-closed in every branch: no tenant entry means deny, a
// missing role or permission means deny. When both a role and a permission
// are required, both must be present.
func Authorize(claims *auth.Claims, tenantID, requiredRole, requiredPermission string) bool {
	if claims == nil || tenantID == "" {
		return false
	}
	grant, ok := claims.Authorization[tenantID]
	if !ok {
		return false
	}
	if requiredRole != "" && !contains(grant.Roles, requiredRole) {
		return false
	}
	if requiredPermission != "" && !contains(grant.Permissions, requiredPermission) {
		return false
	}
	return true
}

// HasRole reports whether the claims grant role within tenantID.
func HasRole(claims *auth.Claims, tenantID, role string) bool {
	return role != "" && Authorize(claims, tenantID, role, "")
}

// HasPermission reports whether the claims grant permission within tenantID.
func HasPermission(claims *auth.Claims, tenantID, permission string) bool {
	return permission != "" && Authorize(claims, tenantID, "", permission)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
