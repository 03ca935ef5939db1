package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Remaining int
	Reset     time.Duration // time until the budget is replenished
}

// Limiter decides whether a client may make another request
type Limiter interface {
	Allow(ctx context.Context, clientID string) (Decision, error)
}

// RedisLimiter counts requests per fixed window in Redis so every replica shares one budget
type RedisLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

// NewRedisLimiter creates a Redis backed fixed-window limiter
func NewRedisLimiter(client *redis.Client, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{client: client, config: config}
}

func (l *RedisLimiter) Allow(ctx context.Context, clientID string) (Decision, error) {
	key := fmt.Sprintf("%s:%s", l.config.KeyPrefix, clientID)

	var (
		incr   *redis.IntCmd
		ttlCmd *redis.DurationCmd
	)
	if _, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttlCmd = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return Decision{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	count := incr.Val()
	ttl := ttlCmd.Val()

	// A counter without expiry would block the client forever, so any key
	// missing one gets the window, not only a freshly created key.
	if ttl < 0 {
		if err := l.client.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set rate limit window: %w", err)
		}
		ttl = l.config.Window
	}

	remaining := l.config.RequestsPerWindow - int(count)
	return Decision{
		Allowed:   count <= int64(l.config.RequestsPerWindow),
		Remaining: max(remaining, 0),
		Reset:     ttl,
	}, nil
}

// LocalLimiter keeps a token bucket per client in process memory.
// It serves single-instance deployments running without Redis.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows config.RequestsPerWindow requests per window, refilled evenly
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*localEntry),
		limit:    rate.Every(config.Window / time.Duration(max(config.RequestsPerWindow, 1))),
		burst:    config.RequestsPerWindow,
		idleTTL:  2 * config.Window,
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, clientID string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, exists := l.limiters[clientID]
	if !exists {
		entry = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[clientID] = entry
	}
	entry.lastSeen = now

	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)

	reset := time.Duration(0)
	if tokens < 1 {
		reset = time.Duration((1 - tokens) / float64(l.limit) * float64(time.Second))
	}

	return Decision{
		Allowed:   allowed,
		Remaining: max(int(tokens), 0),
		Reset:     reset,
	}, nil
}

// Cleanup drops buckets of clients that have been idle for two windows
func (l *LocalLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.idleTTL)
	for key, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done
func (l *LocalLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}

// RateLimitMiddleware rejects clients that exceed their budget with 429.
// Limiter failures let the request through.
func RateLimitMiddleware(limiter Limiter, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Runs ahead of authentication, so clients are keyed by host
			clientID := r.RemoteAddr
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				clientID = host
			}

			decision, err := limiter.Allow(r.Context(), clientID)
			if err != nil {
				logger.Error("Rate limiter unavailable", zap.Error(err), zap.String("client_id", clientID))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.Int("limit", config.RequestsPerWindow),
				)

				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(decision.Reset).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(decision.Reset.Seconds())))

				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
