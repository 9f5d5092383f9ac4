package anthropic

import (
	"errors"
	"net/http"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"heartline/internal/domain"
)

func TestMapProviderError(t *testing.T) {
	tests := []struct {
		name       string
		upstream   int
		wantStatus int
		wantCode   string
	}{
		{name: "unauthorized becomes server error", upstream: http.StatusUnauthorized, wantStatus: http.StatusInternalServerError, wantCode: "ai_auth_error"},
		{name: "forbidden becomes server error", upstream: http.StatusForbidden, wantStatus: http.StatusInternalServerError, wantCode: "ai_auth_error"},
		{name: "rate limit passes through", upstream: http.StatusTooManyRequests, wantStatus: http.StatusTooManyRequests, wantCode: "ai_rate_limit"},
		{name: "bad request passes through", upstream: http.StatusBadRequest, wantStatus: http.StatusBadRequest, wantCode: "ai_invalid_request"},
		{name: "payload too large passes through", upstream: http.StatusRequestEntityTooLarge, wantStatus: http.StatusRequestEntityTooLarge, wantCode: "ai_payload_too_large"},
		{name: "server error becomes bad gateway", upstream: http.StatusInternalServerError, wantStatus: http.StatusBadGateway, wantCode: "ai_upstream_error"},
		{name: "service unavailable becomes bad gateway", upstream: http.StatusServiceUnavailable, wantStatus: http.StatusBadGateway, wantCode: "ai_upstream_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapProviderError(&anthropic.Error{StatusCode: tt.upstream})

			var provErr *domain.ProviderError
			if !errors.As(got, &provErr) {
				t.Fatalf("mapProviderError returned %T, want *domain.ProviderError", got)
			}
			if provErr.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", provErr.Status, tt.wantStatus)
			}
			if provErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", provErr.Code, tt.wantCode)
			}
		})
	}
}

func TestMapProviderErrorNonAPIError(t *testing.T) {
	got := mapProviderError(errors.New("dial tcp: connection refused"))

	var provErr *domain.ProviderError
	if !errors.As(got, &provErr) {
		t.Fatalf("mapProviderError returned %T, want *domain.ProviderError", got)
	}
	if provErr.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want %d", provErr.Status, http.StatusBadGateway)
	}
	if provErr.Message == "dial tcp: connection refused" {
		t.Error("raw transport error leaked into client-facing message")
	}
}
