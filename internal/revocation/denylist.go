// Package revocation keeps a deny-list of token ids so a bearer token can be
// withdrawn before it expires. Entries live only as long as the token would.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:jti:"

var ErrEmptyTokenID = errors.New("revocation: token id is required")

type RedisDenylist struct {
	rdb   redis.UniversalClient
	clock func() time.Time
}

func NewRedisDenylist(rdb redis.UniversalClient) *RedisDenylist {
	return &RedisDenylist{rdb: rdb, clock: time.Now}
}

// Revoke records tokenID until expiresAt. Already-expired tokens are skipped.
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrEmptyTokenID
	}
	ttl := expiresAt.Sub(d.clock())
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, ErrEmptyTokenID
	}
	n, err := d.rdb.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}
