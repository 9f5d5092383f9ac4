package handler

import (
	"log/slog"
	"net/http"

	"heartline/internal/httputil"
	aisvc "heartline/internal/service/ai"
)

// ChatHandler serves the stateless AI endpoints: the client sends the full
// message history on every call and nothing is persisted.
type ChatHandler struct {
	chat   *aisvc.ChatService
	logger *slog.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chat *aisvc.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// Chat handles POST /api/ai/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req aisvc.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.chat.Chat(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// ChatStream handles POST /api/ai/chat/stream
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	var req aisvc.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Validation and model resolution happen before the first SSE byte, so
	// a bad request still gets a regular problem+json 400.
	events, err := h.chat.ChatStream(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	relayStream(w, r, h.logger, events)
}
