package auth

import "strings"

const bearerScheme = "Bearer "

// ExtractBearerToken pulls the token out of an Authorization header value.
//
// Only the exact `Bearer <token>` form is accepted: the scheme word is
// case-sensitive, exactly one space separates it from the token, and the
// token must be non-empty. Anything else reports false.
func ExtractBearerToken(headerValue string) (string, bool) {
	if !strings.HasPrefix(headerValue, bearerScheme) {
		return "", false
	}
	token := headerValue[len(bearerScheme):]
	if token == "" || strings.HasPrefix(token, " ") {
		return "", false
	}
	return token, true
}
