package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"heartline/internal/domain"
	"heartline/internal/httputil"
)

// handleError maps a service error to an RFC 7807 response. Typed domain
// errors carry their own status; provider errors additionally expose a
// stable machine-readable code so the SPA can distinguish upstream trouble
// from local throttling. Anything unrecognized becomes a logged 500 with a
// generic body.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		httputil.RespondErrorWithExtras(w, providerErr.Status, providerErr.Message,
			map[string]interface{}{"code": providerErr.Code})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	logger.Error("unhandled error", "error", err)
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}
