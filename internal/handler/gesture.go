package handler

import (
	"log/slog"
	"net/http"

	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/httputil"
	crmsvc "heartline/internal/service/crm"
)

// GestureHandler serves gestures, including the complete/skip transitions
// and creation from a template.
type GestureHandler struct {
	svc    *crmsvc.GestureService
	logger *slog.Logger
}

// NewGestureHandler creates a gesture handler.
func NewGestureHandler(svc *crmsvc.GestureService, logger *slog.Logger) *GestureHandler {
	return &GestureHandler{svc: svc, logger: logger}
}

// List handles GET /api/gestures
func (h *GestureHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := crmrepo.GestureFilter{
		Status:   query.Get("status"),
		PersonID: query.Get("person_id"),
		Category: query.Get("category"),
		Effort:   query.Get("effort"),
	}

	gestures, err := h.svc.List(r.Context(), httputil.GetUserID(r), filter)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, gestures)
}

// ListUpcoming handles GET /api/gestures/upcoming
func (h *GestureHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	gestures, err := h.svc.ListUpcoming(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, gestures)
}

// Create handles POST /api/gestures
func (h *GestureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req crmsvc.CreateGestureRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	gesture, err := h.svc.Create(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, gesture)
}

// CreateFromTemplate handles POST /api/gestures/from-template
func (h *GestureHandler) CreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req crmsvc.FromTemplateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	gesture, err := h.svc.CreateFromTemplate(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, gesture)
}

// Get handles GET /api/gestures/{id}
func (h *GestureHandler) Get(w http.ResponseWriter, r *http.Request) {
	gesture, err := h.svc.Get(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, gesture)
}

// Update handles PATCH /api/gestures/{id}
func (h *GestureHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req crmsvc.UpdateGestureRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	gesture, err := h.svc.Update(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, gesture)
}

// Complete handles POST /api/gestures/{id}/complete
func (h *GestureHandler) Complete(w http.ResponseWriter, r *http.Request) {
	gesture, err := h.svc.Complete(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, gesture)
}

// Skip handles POST /api/gestures/{id}/skip
func (h *GestureHandler) Skip(w http.ResponseWriter, r *http.Request) {
	gesture, err := h.svc.Skip(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, gesture)
}

// Delete handles DELETE /api/gestures/{id}
func (h *GestureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
