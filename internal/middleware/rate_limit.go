package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"IG_DIRECTORY_BACK-END/internal/logger"
	"IG_DIRECTORY_BACK-END/internal/repository"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

// RateLimitStore applies one hit to a sliding window. Trimming, counting and
// recording must happen atomically so concurrent hits cannot overshoot limit.
type RateLimitStore interface {
	Hit(ctx context.Context, identifier string, limit int, window time.Duration, now time.Time) (repository.RateWindow, error)
}

// IdentifierFunc extracts the identifier used to scope a limit, e.g. client IP
type IdentifierFunc func(*http.Request) (string, bool)

// RateLimitRule configures a sliding-window limit
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// RateLimiter enforces sliding-window limits backed by a RateLimitStore
type RateLimiter struct {
	store  RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

type ruleResult struct {
	allowed    bool
	limit      int
	remaining  int
	reset      time.Time
	retryAfter time.Duration
}

// NewRateLimiter builds a reusable rate limiter
func NewRateLimiter(store RateLimitStore, log *zap.Logger) *RateLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{store: store, logger: log, now: time.Now}
}

// WithClock allows injection of a custom clock
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// ClientIPIdentifier scopes a limit to the caller's IP as seen by resolver.
// A nil resolver uses the direct peer address.
func ClientIPIdentifier(resolver *utils.ClientIPResolver) IdentifierFunc {
	return func(r *http.Request) (string, bool) {
		ip := resolver.ClientIP(r)
		return ip, ip != ""
	}
}

// Limit wraps next with the rule. Store failures let the request through.
func (rl *RateLimiter) Limit(rule RateLimitRule, next http.HandlerFunc) http.HandlerFunc {
	if rl == nil || rl.store == nil || rule.Identifier == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return next
	}
	if rule.Name == "" {
		rule.Name = "default"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		identifier, ok := rule.Identifier(r)
		if !ok || identifier == "" {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("%s:%s", rule.Name, identifier)
		res, err := rl.evaluate(r.Context(), rule, key, rl.now())
		if err != nil {
			logger.WithContext(r.Context(), rl.logger).Warn("rate limit check failed",
				zap.String("rule", rule.Name),
				zap.String("identifier", logger.MaskIP(identifier)),
				zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		applyHeaders(w, res)
		if !res.allowed {
			seconds := retrySeconds(res.retryAfter)
			utils.WriteErrorResponse(w, http.StatusTooManyRequests, "Too Many Requests",
				fmt.Sprintf("Too many requests. Try again in %d seconds.", seconds))
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (rl *RateLimiter) evaluate(ctx context.Context, rule RateLimitRule, key string, now time.Time) (ruleResult, error) {
	win, err := rl.store.Hit(ctx, key, rule.Limit, rule.Window, now)
	if err != nil {
		return ruleResult{}, err
	}

	res := ruleResult{
		allowed:   win.Allowed,
		limit:     rule.Limit,
		remaining: max(rule.Limit-win.Count, 0),
		reset:     now.Add(rule.Window),
	}
	if !win.Oldest.IsZero() {
		res.reset = win.Oldest.Add(rule.Window)
	}
	res.retryAfter = max(res.reset.Sub(now), 0)
	return res, nil
}

func retrySeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 0)
}

func applyHeaders(w http.ResponseWriter, res ruleResult) {
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(res.limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(res.remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(res.reset.Unix(), 10))
	if !res.allowed {
		headers.Set("Retry-After", strconv.Itoa(retrySeconds(res.retryAfter)))
	}
}
