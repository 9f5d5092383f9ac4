package handler

import (
	"log/slog"
	"net/http"

	"heartline/internal/httputil"
	crmsvc "heartline/internal/service/crm"
)

// PreferenceHandler serves per-person like/dislike preferences.
type PreferenceHandler struct {
	svc    *crmsvc.PreferenceService
	logger *slog.Logger
}

// NewPreferenceHandler creates a preference handler.
func NewPreferenceHandler(svc *crmsvc.PreferenceService, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{svc: svc, logger: logger}
}

// List handles GET /api/people/{id}/preferences
func (h *PreferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")

	prefs, err := h.svc.List(r.Context(), httputil.GetUserID(r), r.PathValue("id"), kind)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}

// Create handles POST /api/people/{id}/preferences
func (h *PreferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req crmsvc.CreatePreferenceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pref, err := h.svc.Create(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, pref)
}

// Delete handles DELETE /api/preferences/{id}
func (h *PreferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
