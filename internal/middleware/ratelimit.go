package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles abuse-prone endpoints (lead-capture forms, blog
// counters) per client IP using a fixed window counter in Valkey. Keeping
// the state in Valkey means every API replica shares one budget.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRateLimiter creates a limiter allowing limit requests per window for
// each client IP. The prefix namespaces the Valkey keys so different
// route groups can carry different budgets.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:" + prefix + ":",
	}
}

// Limit is the middleware enforcing the budget. When Valkey is down the
// request is allowed through: losing throttling briefly is better than
// refusing every lead.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.prefix + clientIP(r)
		ctx := r.Context()

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		// First hit in the window starts the clock.
		if count == 1 {
			rl.client.Expire(ctx, key, rl.window)
		}

		if count > int64(rl.limit) {
			writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address, without the port when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
