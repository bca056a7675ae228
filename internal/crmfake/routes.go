package crmfake

import (
	"net/http"
	"strings"

	"github.com/johnwards/assocsync/internal/api"
)

// RegisterRoutes registers the v4 association endpoints on the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Label management endpoints.
	s.handle(mux, "GET /crm/v4/associations/{from}/{to}/labels", s.ListLabels)
	s.handle(mux, "POST /crm/v4/associations/{from}/{to}/labels", s.CreateLabel)
	s.handle(mux, "PUT /crm/v4/associations/{from}/{to}/labels", s.UpdateLabel)
	s.handle(mux, "DELETE /crm/v4/associations/{from}/{to}/labels/{typeId}", s.DeleteLabel)

	// Record-level association endpoints.
	s.handle(mux, "PUT /crm/v4/objects/{from}/{fromId}/associations/{to}/{toId}", s.Associate)
	s.handle(mux, "DELETE /crm/v4/objects/{from}/{fromId}/associations/{to}/{toId}", s.Archive)

	// Batch endpoints.
	s.handle(mux, "POST /crm/v4/associations/{from}/{to}/batch/create", s.BatchCreate)
	s.handle(mux, "POST /crm/v4/associations/{from}/{to}/batch/archive", s.BatchArchive)

	// Cardinality limits.
	s.handle(mux, "POST /crm/v4/associations/definitions/configurations/{from}/{to}/batch/create", s.CreateLimits)
	s.handle(mux, "POST /crm/v4/associations/definitions/configurations/{from}/{to}/batch/update", s.UpdateLimits)

	// Admin endpoints, outside the CRM API surface.
	s.handle(mux, "POST /_fakecrm/reset", s.HandleReset)
}

// handle registers h behind the bearer check and any failure queued for
// pattern with FailNext.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != s.token {
				writeError(w, r, http.StatusUnauthorized, categoryAuthentication,
					"Authentication credentials not found.")
				return
			}
		}
		if f, ok := s.takeFailure(pattern); ok {
			writeError(w, r, f.status, categoryFor(f.status), f.message)
			return
		}
		h(w, r)
	})
}

// Handler returns the fake as a complete http.Handler with request IDs,
// panic recovery and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	count := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.requests.Add(1)
			next.ServeHTTP(w, r)
		})
	}
	return api.Chain(mux, api.Recovery(), api.RequestID(), api.Logging(), count)
}
