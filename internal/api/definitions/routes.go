package definitions

import (
	"net/http"

	"github.com/johnwards/assocsync/internal/api"
	"github.com/johnwards/assocsync/internal/coordinator"
)

// RegisterRoutes registers the association definition endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, svc *coordinator.DefinitionService, errs *api.ErrorReporter) {
	h := &Handler{svc: svc, errs: errs}

	mux.HandleFunc("POST /associations/definitions", h.Create)
	mux.HandleFunc("GET /associations/definitions/{from}/{to}", h.List)
	mux.HandleFunc("PUT /associations/definitions/{id}", h.Update)
	mux.HandleFunc("DELETE /associations/definitions/{id}", h.Delete)
}
