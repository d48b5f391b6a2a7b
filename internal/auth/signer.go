package auth

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signer mints tokens in the issuer's claims shape. Production tokens come
// from the external auth provider; this exists for cmd/tokengen and tests.
type Signer struct {
	key    *rsa.PrivateKey
	method jwt.SigningMethod
	issuer string
	ttl    time.Duration
}

// SignerConfig controls token minting.
type SignerConfig struct {
	PrivateKey *rsa.PrivateKey
	Issuer     string
	TTL        time.Duration
}

// NewSigner builds a Signer. Tokens are signed with RS256.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if cfg.PrivateKey == nil {
		return nil, errors.New("private key is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Signer{
		key:    cfg.PrivateKey,
		method: jwt.SigningMethodRS256,
		issuer: cfg.Issuer,
		ttl:    ttl,
	}, nil
}

// TokenRequest describes the principal and grants to embed in a token.
type TokenRequest struct {
	Mode          string
	TenantID      string
	UserID        int64
	UserUUID      string
	IsConfirmed   bool
	Authorization map[string]TenantAuthorization
	SessionID     string
	Audience      string
}

// Issue mints a signed token at instant now.
func (s *Signer) Issue(now time.Time, req TokenRequest) (string, error) {
	if req.TenantID == "" {
		return "", errors.New("tenantId is required")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	userUUID := req.UserUUID
	if userUUID == "" {
		userUUID = uuid.NewString()
	}
	mode := req.Mode
	if mode == "" {
		mode = "test"
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  audienceOrNil(req.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		Mode:          mode,
		TenantID:      req.TenantID,
		UserID:        req.UserID,
		UserUUID:      userUUID,
		IsConfirmed:   req.IsConfirmed,
		Authorization: req.Authorization,
		SessionID:     sessionID,
	}

	t := jwt.NewWithClaims(s.method, claims)
	return t.SignedString(s.key)
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
