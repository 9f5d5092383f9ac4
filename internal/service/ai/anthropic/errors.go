package anthropic

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"

	"heartline/internal/domain"
)

// mapProviderError converts an SDK failure into a domain ProviderError the
// handler layer can surface. Upstream auth failures are reported as our own
// server error: a misconfigured API key is not the client's fault, and the
// raw provider message never leaks.
func mapProviderError(err error) error {
	var apierr *anthropic.Error
	if !errors.As(err, &apierr) {
		return &domain.ProviderError{
			Status:  http.StatusBadGateway,
			Code:    "ai_upstream_error",
			Message: "AI provider request failed",
		}
	}

	switch apierr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.ProviderError{
			Status:  http.StatusInternalServerError,
			Code:    "ai_auth_error",
			Message: "AI provider rejected our credentials",
		}
	case http.StatusTooManyRequests:
		return &domain.ProviderError{
			Status:  http.StatusTooManyRequests,
			Code:    "ai_rate_limit",
			Message: "AI provider rate limit exceeded, retry shortly",
		}
	case http.StatusBadRequest:
		return &domain.ProviderError{
			Status:  http.StatusBadRequest,
			Code:    "ai_invalid_request",
			Message: invalidRequestMessage(apierr),
		}
	case http.StatusRequestEntityTooLarge:
		return &domain.ProviderError{
			Status:  http.StatusRequestEntityTooLarge,
			Code:    "ai_payload_too_large",
			Message: "request payload exceeds the provider's size limit",
		}
	default:
		return &domain.ProviderError{
			Status:  http.StatusBadGateway,
			Code:    "ai_upstream_error",
			Message: "AI provider request failed",
		}
	}
}

// invalidRequestMessage pulls the provider's human-readable explanation out
// of the error body so a client can fix its request. Falls back to a fixed
// message when the body is absent or unparseable.
func invalidRequestMessage(apierr *anthropic.Error) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if raw := apierr.RawJSON(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &body); err == nil && body.Error.Message != "" {
			return body.Error.Message
		}
	}
	return "AI provider rejected the request as invalid"
}
