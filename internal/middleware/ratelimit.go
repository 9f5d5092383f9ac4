package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"heartline/internal/httputil"
	"heartline/internal/ratelimit"
)

// RateLimit enforces a sliding-window policy before the wrapped handler
// runs. The caller is identified by user ID when authenticated, falling back
// to the client network address. A denied request gets a 429 with a
// policy-local code so the SPA can tell our throttling apart from the AI
// provider's own rate limit.
//
// The limiter is a shared service injected at startup; this middleware holds
// no state of its own.
func RateLimit(limiter ratelimit.Limiter, policy ratelimit.Policy, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiterKey(r)

			allowed, err := limiter.Allow(r.Context(), policy, key)
			if err != nil {
				// Redis trouble should not take the API down; log and let
				// the request through.
				logger.Error("rate limiter unavailable", "error", err, "policy", policy.Name)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests,
					"too many requests, please try again later",
					map[string]interface{}{"code": "local_rate_limit", "policy": policy.Name},
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterKey identifies the caller: authenticated user ID, else client IP.
func limiterKey(r *http.Request) string {
	if userID := httputil.GetUserID(r); userID != "" {
		return userID
	}
	return clientIP(r)
}

// clientIP extracts the originating address, preferring X-Forwarded-For set
// by the reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the client
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
