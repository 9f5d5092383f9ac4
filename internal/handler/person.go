package handler

import (
	"log/slog"
	"net/http"

	crmrepo "heartline/internal/domain/repositories/crm"
	"heartline/internal/httputil"
	crmsvc "heartline/internal/service/crm"
)

// PersonHandler serves the people resource.
type PersonHandler struct {
	svc    *crmsvc.PersonService
	logger *slog.Logger
}

// NewPersonHandler creates a person handler.
func NewPersonHandler(svc *crmsvc.PersonService, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{svc: svc, logger: logger}
}

// List handles GET /api/people
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := crmrepo.PersonFilter{
		Search:           r.URL.Query().Get("search"),
		RelationshipType: r.URL.Query().Get("relationship_type"),
	}

	people, err := h.svc.List(r.Context(), httputil.GetUserID(r), filter)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, people)
}

// Create handles POST /api/people
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req crmsvc.CreatePersonRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	person, err := h.svc.Create(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, person)
}

// Get handles GET /api/people/{id}
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	person, err := h.svc.Get(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, person)
}

// Update handles PATCH /api/people/{id}
func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req crmsvc.UpdatePersonRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	person, err := h.svc.Update(r.Context(), httputil.GetUserID(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, person)
}

// Delete handles DELETE /api/people/{id}
func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), httputil.GetUserID(r), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
