package crmfake

import (
	"errors"
	"net/http"

	"github.com/johnwards/assocsync/internal/api"
)

// CRM error categories.
const (
	categoryValidation     = "VALIDATION_ERROR"
	categoryObjectNotFound = "OBJECT_NOT_FOUND"
	categoryAuthentication = "INVALID_AUTHENTICATION"
	categoryInternal       = "INTERNAL_ERROR"
)

// Error is the error document the CRM returns on failure.
type Error struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
	Category      string `json:"category"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, category, message string) {
	api.WriteJSON(w, status, &Error{
		Status:        "error",
		Message:       message,
		CorrelationID: api.CorrelationID(r.Context()),
		Category:      category,
	})
}

func writeStateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, r, http.StatusNotFound, categoryObjectNotFound, err.Error())
	case errors.Is(err, errValidation):
		writeError(w, r, http.StatusBadRequest, categoryValidation, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, categoryInternal, err.Error())
	}
}

// categoryFor picks the error category matching an injected status.
func categoryFor(status int) string {
	switch {
	case status == http.StatusNotFound:
		return categoryObjectNotFound
	case status == http.StatusUnauthorized:
		return categoryAuthentication
	case status >= 500:
		return categoryInternal
	default:
		return categoryValidation
	}
}
