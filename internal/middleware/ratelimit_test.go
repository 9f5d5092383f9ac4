package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"heartline/internal/ratelimit"
)

type fakeLimiter struct {
	allow   bool
	err     error
	lastKey string
}

func (f *fakeLimiter) Allow(ctx context.Context, policy ratelimit.Policy, key string) (bool, error) {
	f.lastKey = key
	return f.allow, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAllowed(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	mw := RateLimit(limiter, ratelimit.Policy{Name: "ai"}, testLogger())

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil)
	r.RemoteAddr = "203.0.113.9:52114"
	mw(okHandler()).ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if limiter.lastKey != "203.0.113.9" {
		t.Errorf("limiter key = %q, want client IP", limiter.lastKey)
	}
}

func TestRateLimitDenied(t *testing.T) {
	mw := RateLimit(&fakeLimiter{allow: false}, ratelimit.Policy{Name: "ai"}, testLogger())

	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	// The code field is how the SPA tells local throttling from the AI
	// provider's own 429.
	if code, _ := body["code"].(string); code != "local_rate_limit" {
		t.Errorf("code = %q, want local_rate_limit", code)
	}
	if policy, _ := body["policy"].(string); policy != "ai" {
		t.Errorf("policy = %q, want ai", policy)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	mw := RateLimit(&fakeLimiter{err: errors.New("redis down")}, ratelimit.Policy{Name: "ai"}, testLogger())

	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ai/chat", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when the limiter is unavailable", rec.Code)
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")

	if got := clientIP(r); got != "198.51.100.7" {
		t.Errorf("clientIP() = %q, want first forwarded hop", got)
	}
}
