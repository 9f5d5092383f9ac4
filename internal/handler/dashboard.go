package handler

import (
	"log/slog"
	"net/http"

	"heartline/internal/httputil"
	crmsvc "heartline/internal/service/crm"
)

// DashboardHandler serves the aggregate home-screen summary.
type DashboardHandler struct {
	svc    *crmsvc.DashboardService
	logger *slog.Logger
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(svc *crmsvc.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// Get handles GET /api/dashboard. An optional person_id query parameter
// narrows every section to one person.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	personID := r.URL.Query().Get("person_id")

	dashboard, err := h.svc.Get(r.Context(), httputil.GetUserID(r), personID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, dashboard)
}
