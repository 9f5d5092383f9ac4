package handler

import (
	"log/slog"
	"net/http"

	"heartline/internal/httputil"
	"heartline/internal/service/conversation"
)

// ConversationHandler serves the persisted chat endpoints.
type ConversationHandler struct {
	svc    *conversation.Service
	logger *slog.Logger
}

// NewConversationHandler creates a conversation handler.
func NewConversationHandler(svc *conversation.Service, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{svc: svc, logger: logger}
}

// Create handles POST /api/ai/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req conversation.CreateConversationRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.svc.Create(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, conv)
}

// List handles GET /api/ai/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	convs, err := h.svc.List(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, convs)
}

// GetMessages handles GET /api/ai/conversations/{id}/messages
func (h *ConversationHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.svc.GetMessages(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/ai/conversations/{id}/messages
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req conversation.SendMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.SendMessage(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// StreamMessage handles POST /api/ai/conversations/{id}/messages/stream
func (h *ConversationHandler) StreamMessage(w http.ResponseWriter, r *http.Request) {
	var req conversation.SendMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Ownership, validation, and the user-turn insert all happen before the
	// response switches to SSE; failures there are plain JSON errors.
	events, err := h.svc.StreamMessage(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	relayStream(w, r, h.logger, events)
}
