package associations

import (
	"net/http"

	"github.com/johnwards/assocsync/internal/api"
	"github.com/johnwards/assocsync/internal/coordinator"
)

// RegisterRoutes registers the association endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, svc *coordinator.AssociationService, errs *api.ErrorReporter) {
	h := &Handler{svc: svc, errs: errs}

	mux.HandleFunc("POST /associations", h.Save)
	mux.HandleFunc("GET /associations/{id}", h.Get)
	mux.HandleFunc("DELETE /associations/{id}", h.Delete)
}
