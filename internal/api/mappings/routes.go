package mappings

import (
	"net/http"

	"github.com/johnwards/assocsync/internal/api"
	"github.com/johnwards/assocsync/internal/coordinator"
)

// RegisterRoutes registers the association mapping endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, svc *coordinator.MappingService, errs *api.ErrorReporter) {
	h := &Handler{svc: svc, errs: errs}

	mux.HandleFunc("POST /associations/mappings", h.Create)
	mux.HandleFunc("POST /associations/mappings/batch", h.CreateBatch)
	mux.HandleFunc("DELETE /associations/mappings/batch", h.DeleteBatch)

	// Basic endpoints touch the local store only.
	mux.HandleFunc("GET /associations/mappings/basic/{id}", h.Get)
	mux.HandleFunc("DELETE /associations/mappings/basic/{id}", h.DeleteBasic)

	mux.HandleFunc("DELETE /associations/mappings/{id}", h.Delete)
}
