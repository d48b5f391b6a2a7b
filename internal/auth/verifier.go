package auth

import (
	"crypto"
	"errors"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// errAlgNotAllowed is the sentinel returned from the keyfunc when the token
// header declares an algorithm outside the allow-list. The check runs in the
// keyfunc so it always precedes signature verification; a forged "alg" header
// (including "none") must never reach the crypto layer.
var errAlgNotAllowed = errors.New("signing algorithm not in allow-list")

// VerifierConfig controls how tokens are checked.
type VerifierConfig struct {
	// PublicKey verifies the issuer's signature. Required.
	PublicKey crypto.PublicKey

	// AllowedAlgorithms lists acceptable "alg" header values.
	// Empty defaults to RS256 only.
	AllowedAlgorithms []string

	// ClockSkew is the tolerated clock difference between this verifier
	// and the issuer. Zero tolerance by default.
	ClockSkew time.Duration

	// Issuer and Audience, when set, must match the token's registered
	// claims exactly.
	Issuer   string
	Audience string
}

// Verifier decides whether a presented bearer token is authentic, unexpired
// and well-formed. Verify is a pure function of (token, key, now, options):
// it holds no per-request state and is safe for unlimited concurrent use.
type Verifier struct {
	key      atomic.Pointer[keyState]
	allowed  map[string]struct{}
	algs     []string
	skew     time.Duration
	issuer   string
	audience string
}

type keyState struct {
	pub crypto.PublicKey
}

// NewVerifier builds a verifier from the given configuration.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if cfg.PublicKey == nil {
		return nil, errors.New("public key is required")
	}
	algs := cfg.AllowedAlgorithms
	if len(algs) == 0 {
		algs = []string{jwt.SigningMethodRS256.Alg()}
	}
	allowed := make(map[string]struct{}, len(algs))
	for _, alg := range algs {
		if alg == "" || alg == "none" {
			return nil, errors.New("unsigned algorithms cannot be allow-listed")
		}
		allowed[alg] = struct{}{}
	}

	v := &Verifier{
		allowed:  allowed,
		algs:     append([]string(nil), algs...),
		skew:     cfg.ClockSkew,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
	v.key.Store(&keyState{pub: cfg.PublicKey})
	return v, nil
}

// SetKey replaces the verification key. The swap is atomic: in-flight
// verifications observe either the old key or the new one, never a torn
// value. Used when the issuer rotates its signing key.
func (v *Verifier) SetKey(pub crypto.PublicKey) error {
	if pub == nil {
		return errors.New("public key is required")
	}
	v.key.Store(&keyState{pub: pub})
	return nil
}

// Verify checks tokenString against the configured key at instant now.
//
// On success the decoded claims are trustworthy and may feed authorization
// decisions. On failure the returned error carries a distinct ErrorCode;
// callers map codes to HTTP statuses but must not leak them to clients.
func (v *Verifier) Verify(tokenString string, now time.Time) (*Claims, error) {
	if tokenString == "" {
		return nil, newError(ErrCodeMissingToken, errors.New("token is empty"))
	}
	state := v.key.Load()

	claims := new(Claims)
	parser := jwt.NewParser(
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(v.skew),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := v.allowed[t.Method.Alg()]; !ok {
			return nil, errAlgNotAllowed
		}
		return state.pub, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, newError(ErrCodeInvalidIssuer, errors.New("issuer claim mismatch"))
	}
	if v.audience != "" && !containsAudience(claims.Audience, v.audience) {
		return nil, newError(ErrCodeInvalidAudience, errors.New("audience claim mismatch"))
	}

	// Required payload fields beyond the registered claims.
	if claims.IssuedAt == nil {
		return nil, newError(ErrCodeMalformedToken, errors.New("iat claim missing"))
	}
	if claims.TenantID == "" {
		return nil, newError(ErrCodeMalformedToken, errors.New("tenantId claim missing"))
	}

	return claims, nil
}

// AllowedAlgorithms reports the configured allow-list.
func (v *Verifier) AllowedAlgorithms() []string {
	return append([]string(nil), v.algs...)
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, errAlgNotAllowed):
		return newError(ErrCodeAlgorithmMismatch, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newError(ErrCodeMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return newError(ErrCodeInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(ErrCodeExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return newError(ErrCodeNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return newError(ErrCodeMalformedToken, err)
	default:
		return newError(ErrCodeMalformedToken, err)
	}
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
