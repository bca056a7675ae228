package associations

import (
	"net/http"
	"strconv"

	"github.com/johnwards/assocsync/internal/api"
	"github.com/johnwards/assocsync/internal/coordinator"
	"github.com/johnwards/assocsync/internal/domain"
)

const notFound = "Association not found"

// Handler serves the association endpoints.
type Handler struct {
	svc  *coordinator.AssociationService
	errs *api.ErrorReporter
}

// Get handles fetching an association by ID.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.errs.Report(w, r, "get association "+id, err, notFound)
		return
	}
	api.WriteSuccess(w, http.StatusOK, a)
}

// Save handles upserting an association by its unique key.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var in domain.Association
	if err := api.DecodeBody(r, &in); err != nil {
		h.errs.Report(w, r, "save association", err, "")
		return
	}

	a, err := h.svc.Save(r.Context(), &in)
	if err != nil {
		h.errs.Report(w, r, "save association", err, "")
		return
	}
	api.WriteSuccess(w, http.StatusOK, a)
}

// Delete handles deleting an association and its mapping. With
// ?archiveRemote=true the mapped CRM association is archived too.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	archive, _ := strconv.ParseBool(r.URL.Query().Get("archiveRemote"))

	res, err := h.svc.Delete(r.Context(), id, archive)
	if err != nil {
		h.errs.Report(w, r, "delete association "+id, err, notFound)
		return
	}
	api.WriteSuccess(w, http.StatusOK, res)
}
