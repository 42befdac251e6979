package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// List is a Redis-backed denylist of revoked bearer tokens, checked by the
// auth gate before verification. A nil client disables the feature: Revoke is
// a no-op and IsRevoked always reports false.
type List struct {
	client *redis.Client
	prefix string
}

// NewList creates a denylist using the given client. Prefix may be empty.
func NewList(client *redis.Client, prefix string) *List {
	if prefix == "" {
		prefix = "revoked:token:"
	}
	return &List{client: client, prefix: prefix}
}

func (l *List) key(token string) string {
	return l.prefix + token
}

// Revoke marks the token as revoked until its remaining lifetime elapses.
func (l *List) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if l == nil || l.client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return l.client.Set(ctx, l.key(token), "1", ttl).Err()
}

// IsRevoked reports whether the token is on the denylist.
func (l *List) IsRevoked(ctx context.Context, token string) (bool, error) {
	if l == nil || l.client == nil {
		return false, nil
	}
	n, err := l.client.Exists(ctx, l.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
