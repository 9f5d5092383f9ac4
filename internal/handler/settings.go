package handler

import (
	"log/slog"
	"net/http"

	"heartline/internal/httputil"
	crmsvc "heartline/internal/service/crm"
)

// SettingsHandler serves the per-user settings rows. Reads return defaults
// for users who never saved anything.
type SettingsHandler struct {
	svc    *crmsvc.SettingsService
	logger *slog.Logger
}

// NewSettingsHandler creates a settings handler.
func NewSettingsHandler(svc *crmsvc.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, logger: logger}
}

// GetNotifications handles GET /api/settings/notifications
func (h *SettingsHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetNotificationSettings(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}

// UpdateNotifications handles PATCH /api/settings/notifications
func (h *SettingsHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var req crmsvc.UpdateNotificationSettingsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := h.svc.UpdateNotificationSettings(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, settings)
}

// GetPreferences handles GET /api/settings/preferences
func (h *SettingsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.svc.GetUserPreferences(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences handles PATCH /api/settings/preferences
func (h *SettingsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req crmsvc.UpdateUserPreferencesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.svc.UpdateUserPreferences(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}
