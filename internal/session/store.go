// Package session tracks revoked login sessions.
//
// Tokens carry a sessionId claim correlating them to the login session that
// produced them. Revoking the session invalidates every outstanding token
// minted for it without waiting for expiry. The deny-list entry only needs
// to outlive the longest possible token TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the revocation deny-list contract.
type Store interface {
	// Revoke marks sessionID as revoked for at least ttl.
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	// IsRevoked reports whether sessionID is on the deny-list.
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

const revokedKeyPrefix = "session:revoked:"

// RedisStore keeps the deny-list in Redis so every API instance observes a
// revocation immediately.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("session: redis client is required")
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("session: sessionID is required")
	}
	if ttl <= 0 {
		return errors.New("session: ttl must be > 0")
	}
	return s.rdb.Set(ctx, revokedKeyPrefix+sessionID, "1", ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, errors.New("session: sessionID is required")
	}
	n, err := s.rdb.Exists(ctx, revokedKeyPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
