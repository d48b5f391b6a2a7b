package auth

import (
	"errors"
	"fmt"
)

// ErrorCode identifies why a token was rejected.
//
// Codes are for internal logging, metrics and audit only. The HTTP boundary
// must respond to every authenticity failure with the same generic body so
// clients cannot distinguish malformed from expired from badly-signed tokens.
type ErrorCode string

const (
	ErrCodeMissingToken      ErrorCode = "missing_token"
	ErrCodeMalformedToken    ErrorCode = "malformed_token"
	ErrCodeAlgorithmMismatch ErrorCode = "algorithm_mismatch"
	ErrCodeInvalidSignature  ErrorCode = "invalid_signature"
	ErrCodeExpired           ErrorCode = "token_expired"
	ErrCodeNotYetValid       ErrorCode = "token_not_yet_valid"
	ErrCodeInvalidIssuer     ErrorCode = "invalid_issuer"
	ErrCodeInvalidAudience   ErrorCode = "invalid_audience"
	ErrCodeSessionRevoked    ErrorCode = "session_revoked"
	ErrCodeUnauthorized      ErrorCode = "unauthorized"
	ErrCodeInternal          ErrorCode = "internal_error"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeMissingToken:      "Missing token",
	ErrCodeMalformedToken:    "Malformed token",
	ErrCodeAlgorithmMismatch: "Algorithm not allowed",
	ErrCodeInvalidSignature:  "Invalid signature",
	ErrCodeExpired:           "Token expired",
	ErrCodeNotYetValid:       "Token not yet valid",
	ErrCodeInvalidIssuer:     "Invalid issuer",
	ErrCodeInvalidAudience:   "Invalid audience",
	ErrCodeSessionRevoked:    "Session revoked",
	ErrCodeUnauthorized:      "Unauthorized",
	ErrCodeInternal:          "Internal error",
}

// Error wraps rejection causes with a stable code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf extracts the rejection code from err, or ErrCodeInternal when err
// did not originate from this package.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
