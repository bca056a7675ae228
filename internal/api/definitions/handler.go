package definitions

import (
	"net/http"

	"github.com/johnwards/assocsync/internal/api"
	"github.com/johnwards/assocsync/internal/coordinator"
	"github.com/johnwards/assocsync/internal/domain"
)

const notFound = "Association definition not found"

// Handler serves the association definition endpoints.
type Handler struct {
	svc  *coordinator.DefinitionService
	errs *api.ErrorReporter
}

// Create handles registering a definition remotely and storing it. The
// response carries the CRM's answer.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.Definition
	if err := api.DecodeBody(r, &in); err != nil {
		h.errs.Report(w, r, "create definition", err, "")
		return
	}

	res, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		h.errs.Report(w, r, "create definition", err, "")
		return
	}
	api.WriteSuccess(w, http.StatusOK, res.Remote)
}

// Update handles changing a stored definition and its CRM label.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in domain.Definition
	if err := api.DecodeBody(r, &in); err != nil {
		h.errs.Report(w, r, "update definition "+id, err, "")
		return
	}

	res, err := h.svc.Update(r.Context(), id, &in)
	if err != nil {
		h.errs.Report(w, r, "update definition "+id, err, notFound)
		return
	}
	api.WriteSuccess(w, http.StatusOK, res.Remote)
}

// List handles listing the definitions of an object type pair, local and
// remote. The tenant comes from ?customerId=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	from := r.PathValue("from")
	to := r.PathValue("to")

	list, err := h.svc.List(r.Context(), r.URL.Query().Get("customerId"), from, to)
	if err != nil {
		h.errs.Report(w, r, "list definitions "+from+"/"+to, err, "")
		return
	}
	api.WriteSuccess(w, http.StatusOK, list)
}

type deleteResponse struct {
	Message              string `json:"message"`
	DeletedMappingsCount int    `json:"deletedMappingsCount"`
}

// Delete handles deleting a definition and its dependent mappings.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	res, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		h.errs.Report(w, r, "delete definition "+id, err, notFound)
		return
	}
	api.WriteSuccess(w, http.StatusOK, deleteResponse{
		Message:              "Association definition deleted",
		DeletedMappingsCount: res.DeletedMappingsCount,
	})
}
