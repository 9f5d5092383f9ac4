package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"heartline/internal/domain"
	aimodels "heartline/internal/domain/models/ai"
	"heartline/internal/handler/sse"
	"heartline/internal/httputil"
)

const keepAliveInterval = 15 * time.Second

// relayStream pumps provider events out as SSE frames until the channel
// closes. The producer side owns persistence and upstream cancellation; the
// relay's only jobs are the wire format and keeping the channel drained.
// After a write failure or a terminal error frame the loop keeps consuming
// so the producer never blocks on a dead client.
func relayStream(w http.ResponseWriter, r *http.Request, logger *slog.Logger, events <-chan aimodels.StreamEvent) {
	out, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming is not supported on this connection")
		return
	}

	keepalive := time.NewTicker(keepAliveInterval)
	defer keepalive.Stop()

	writable := true
	for {
		select {
		case event, ok := <-events:
			if !ok {
				if writable {
					if err := out.WriteDone(); err != nil {
						logger.Debug("client disconnected before done frame", "error", err)
					}
				}
				return
			}
			if !writable {
				continue
			}
			switch {
			case event.Err != nil:
				logger.Warn("stream failed", "request_id", httputil.GetRequestID(r), "error", event.Err)
				if err := out.WriteError(streamErrorMessage(event.Err)); err != nil {
					logger.Debug("client disconnected during error frame", "error", err)
				}
				writable = false
			case event.TextDelta != "":
				if err := out.WriteText(event.TextDelta); err != nil {
					logger.Debug("client disconnected during stream", "error", err)
					writable = false
				}
			}
			// Metadata events carry token accounting for logs, not wire frames.

		case <-keepalive.C:
			if !writable {
				continue
			}
			if err := out.WriteKeepAlive(); err != nil {
				logger.Debug("client disconnected during keepalive", "error", err)
				writable = false
			}
		}
	}
}

// streamErrorMessage picks the client-safe message for a failed stream.
func streamErrorMessage(err error) string {
	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Message
	}
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Error()
	}
	return "ai service error"
}
