package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/delordemm1/go-accounts-api/internal/httpx"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a chi middleware that allows at most `requests` requests
// per client IP inside each `window`. Counters live in Redis so the limit
// holds across replicas. A Redis outage fails open: rejecting all traffic
// because the limiter is down would be the worse failure mode.
func RateLimit(rdb *redis.Client, requests int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "ratelimit:" + ip

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				logger.Warn("rate limiter unavailable, letting request through", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				// First hit in this window starts the clock.
				rdb.Expire(r.Context(), key, window)
			}

			if count > int64(requests) {
				p := &httpx.Problem{
					Type:      "urn:problem:rate-limit-exceeded",
					Title:     http.StatusText(http.StatusTooManyRequests),
					Status:    http.StatusTooManyRequests,
					Detail:    "too many requests, slow down",
					Code:      "ErrRateLimited",
					RequestID: chimw.GetReqID(r.Context()),
				}
				w.Header().Set("Content-Type", "application/problem+json")
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.WriteHeader(p.GetStatus())
				_ = json.NewEncoder(w).Encode(p)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP relies on chi's RealIP middleware having already rewritten
// RemoteAddr from X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
