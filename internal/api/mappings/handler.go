package mappings

import (
	"fmt"
	"net/http"

	"github.com/johnwards/assocsync/internal/api"
	"github.com/johnwards/assocsync/internal/coordinator"
	"github.com/johnwards/assocsync/internal/domain"
)

const notFound = "Association mapping not found"

// Handler serves the association mapping endpoints.
type Handler struct {
	svc  *coordinator.MappingService
	errs *api.ErrorReporter
}

// Create handles creating a mapping and its CRM association.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.Mapping
	if err := api.DecodeBody(r, &in); err != nil {
		h.errs.Report(w, r, "create mapping", err, "")
		return
	}

	m, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		h.errs.Report(w, r, "create mapping", err, "")
		return
	}
	api.WriteSuccess(w, http.StatusCreated, m)
}

// CreateBatch handles creating many mappings and their CRM associations.
func (h *Handler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var in []domain.Mapping
	if err := api.DecodeBody(r, &in); err != nil {
		h.errs.Report(w, r, "create mappings", err, "")
		return
	}

	res, err := h.svc.CreateBatch(r.Context(), in)
	if err != nil {
		h.errs.Report(w, r, "create mappings", err, "")
		return
	}
	api.WriteSuccess(w, http.StatusCreated, res)
}

type batchDeleteRequest struct {
	MappingIDs []string `json:"mappingIds"`
}

// DeleteBatch handles deleting many mappings and archiving their CRM
// associations.
func (h *Handler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	var in batchDeleteRequest
	if err := api.DecodeBody(r, &in); err != nil {
		h.errs.Report(w, r, "delete mappings", err, "")
		return
	}
	if len(in.MappingIDs) == 0 {
		h.errs.Report(w, r, "delete mappings", fmt.Errorf("%w: mappingIds must not be empty", api.ErrBadRequest), "")
		return
	}

	res, err := h.svc.DeleteBatch(r.Context(), in.MappingIDs)
	if err != nil {
		h.errs.Report(w, r, "delete mappings", err, "No association mappings found")
		return
	}
	api.WriteSuccess(w, http.StatusOK, res)
}

// Get handles fetching a mapping by ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.errs.Report(w, r, "get mapping "+id, err, notFound)
		return
	}
	api.WriteSuccess(w, http.StatusOK, m)
}

type deleteResponse struct {
	Message        string          `json:"message"`
	DeletedMapping *domain.Mapping `json:"deletedMapping"`
}

// DeleteBasic handles deleting a mapping from the local store only.
func (h *Handler) DeleteBasic(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	m, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		h.errs.Report(w, r, "delete mapping "+id, err, notFound)
		return
	}
	api.WriteSuccess(w, http.StatusOK, deleteResponse{Message: "Association mapping deleted", DeletedMapping: m})
}

// Delete handles deleting a mapping and archiving its CRM association.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	m, err := h.svc.DeleteFull(r.Context(), id)
	if err != nil {
		h.errs.Report(w, r, "delete mapping "+id, err, notFound)
		return
	}
	api.WriteSuccess(w, http.StatusOK, deleteResponse{Message: "Association mapping deleted", DeletedMapping: m})
}
