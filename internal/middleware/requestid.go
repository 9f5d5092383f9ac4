package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"heartline/internal/httputil"
)

// RequestID attaches a correlation ID to every request. An incoming
// X-Request-Id header is honored so the SPA can correlate retries; otherwise
// a fresh UUID is generated. The ID is echoed on the response header and
// stored in the request context for logging and error bodies.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, httputil.WithRequestID(r, id))
	})
}
