package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	red "github.com/redis/go-redis/v9"

	"IG_DIRECTORY_BACK-END/internal/repository"
)

// hitScript trims, counts and conditionally records in one round trip.
// KEYS[1] window key; ARGV: now (us), window start (us), limit, ttl (ms), member.
// Returns {count, allowed, oldest member or ""}.
var hitScript = red.NewScript(`
local key = KEYS[1]
redis.call('ZREMRANGEBYSCORE', key, '-inf', ARGV[2])
local count = redis.call('ZCARD', key)
local allowed = 0
if count < tonumber(ARGV[3]) then
	redis.call('ZADD', key, ARGV[1], ARGV[5])
	redis.call('PEXPIRE', key, ARGV[4])
	count = count + 1
	allowed = 1
end
local oldest = redis.call('ZRANGE', key, 0, 0)
local first = ''
if oldest[1] then
	first = oldest[1]
end
return {count, allowed, first}
`)

// RateLimitRepository keeps sliding windows in Redis sorted sets.
// Scores are microseconds; members are "<unix nanos>-<uuid>" so equal timestamps stay distinct.
type RateLimitRepository struct {
	client    *red.Client
	keyPrefix string
}

// NewRateLimitRepository constructs a repository using the provided Redis client
func NewRateLimitRepository(client *red.Client, keyPrefix string) *RateLimitRepository {
	return &RateLimitRepository{client: client, keyPrefix: keyPrefix}
}

// Hit drops attempts at or before now-window, then records one at now if fewer
// than limit remain. The whole step runs as a single script so concurrent
// callers cannot both pass the last free slot.
func (r *RateLimitRepository) Hit(ctx context.Context, identifier string, limit int, window time.Duration, now time.Time) (repository.RateWindow, error) {
	if window <= 0 {
		return repository.RateWindow{}, errors.New("window must be positive")
	}

	ttl := window.Milliseconds()
	if ttl < 1 {
		ttl = 1
	}
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()

	values, err := hitScript.Run(ctx, r.client, []string{r.key(identifier)},
		now.UnixMicro(),
		now.Add(-window).UnixMicro(),
		limit,
		ttl,
		member,
	).Slice()
	if err != nil {
		return repository.RateWindow{}, fmt.Errorf("redis rate limit hit: %w", err)
	}
	if len(values) != 3 {
		return repository.RateWindow{}, fmt.Errorf("redis rate limit hit: unexpected reply %v", values)
	}

	count, _ := values[0].(int64)
	allowed, _ := values[1].(int64)
	res := repository.RateWindow{Count: int(count), Allowed: allowed == 1}

	if first, _ := values[2].(string); first != "" {
		nanos, _, _ := strings.Cut(first, "-")
		ts, err := strconv.ParseInt(nanos, 10, 64)
		if err != nil {
			return repository.RateWindow{}, fmt.Errorf("parse timestamp: %w", err)
		}
		res.Oldest = time.Unix(0, ts)
	}
	return res, nil
}

func (r *RateLimitRepository) key(identifier string) string {
	if r.keyPrefix == "" {
		return identifier
	}
	return r.keyPrefix + ":" + identifier
}
