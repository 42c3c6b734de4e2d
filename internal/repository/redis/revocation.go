package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"
)

const defaultRevocationPrefix = "igdir:revoked"

// RevocationRepository remembers revoked session ids until their token would expire
type RevocationRepository struct {
	client *red.Client
	prefix string
}

// NewRevocationRepository wires Redis storage for revoked session ids
func NewRevocationRepository(client *red.Client, prefix string) *RevocationRepository {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRevocationPrefix
	}
	return &RevocationRepository{client: client, prefix: prefix}
}

// Revoke marks jti as revoked for ttl
func (r *RevocationRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set revocation: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been revoked
func (r *RevocationRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists revocation: %w", err)
	}
	return n > 0, nil
}

func (r *RevocationRepository) key(jti string) string {
	return r.prefix + ":" + jti
}
