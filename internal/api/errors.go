package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/johnwards/assocsync/internal/coordinator"
	"github.com/johnwards/assocsync/internal/hubspot"
	"github.com/johnwards/assocsync/internal/store"
)

// Error kinds, as logged.
const (
	KindValidation      = "VALIDATION_ERROR"
	KindNotFound        = "NOT_FOUND"
	KindConflict        = "CONFLICT"
	KindInvalidResponse = "INVALID_REMOTE_RESPONSE"
	KindRemote          = "REMOTE_API_ERROR"
	KindPartial         = "PARTIAL_FAILURE"
	KindStore           = "STORE_ERROR"
	KindInternal        = "INTERNAL_ERROR"
)

// PartialFailure is the response body of a dual write that half succeeded.
type PartialFailure struct {
	Message         string `json:"message"`
	RemoteSucceeded bool   `json:"remoteSucceeded"`
	LocalSucceeded  bool   `json:"localSucceeded"`
}

// Classify maps err to its kind and HTTP status.
func Classify(err error) (kind string, status int) {
	var partial *coordinator.PartialFailureError
	var remote *hubspot.APIError
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, coordinator.ErrValidation):
		return KindValidation, http.StatusBadRequest
	case errors.As(err, &partial):
		return KindPartial, http.StatusInternalServerError
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound, http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return KindConflict, http.StatusConflict
	case errors.Is(err, coordinator.ErrInvalidRemoteResponse):
		return KindInvalidResponse, http.StatusUnprocessableEntity
	case errors.As(err, &remote), errors.Is(err, hubspot.ErrAuth), errors.Is(err, hubspot.ErrTimeout),
		errors.Is(err, coordinator.ErrRemoteRejected):
		return KindRemote, http.StatusInternalServerError
	case errors.Is(err, store.ErrUnavailable), errors.Is(err, store.ErrReferential):
		return KindStore, http.StatusInternalServerError
	}
	return KindInternal, http.StatusInternalServerError
}

// ErrorReporter logs failures and writes them as envelopes. Errors that
// leave the store unusable also fire the critical hook, once.
type ErrorReporter struct {
	onCritical func(error)
	once       sync.Once
}

// NewErrorReporter creates an ErrorReporter. onCritical may be nil.
func NewErrorReporter(onCritical func(error)) *ErrorReporter {
	return &ErrorReporter{onCritical: onCritical}
}

// Critical reports whether err means the process cannot keep serving.
func Critical(err error) bool {
	return errors.Is(err, store.ErrUnavailable)
}

// Report logs err with its context and writes the failure response.
// notFound is the message used when err is a not-found error.
func (e *ErrorReporter) Report(w http.ResponseWriter, r *http.Request, context string, err error, notFound string) {
	kind, status := Classify(err)
	critical := Critical(err)

	slog.Error("request failed",
		"kind", kind,
		"context", context,
		"error", err,
		"critical", critical,
		"correlation_id", CorrelationID(r.Context()),
	)

	var partial *coordinator.PartialFailureError
	switch {
	case kind == KindNotFound && notFound != "":
		WriteFailure(w, status, notFound)
	case errors.As(err, &partial):
		WriteFailure(w, status, PartialFailure{
			Message:         err.Error(),
			RemoteSucceeded: partial.RemoteSucceeded,
			LocalSucceeded:  partial.LocalSucceeded,
		})
	default:
		WriteFailure(w, status, err.Error())
	}

	if critical && e.onCritical != nil {
		e.once.Do(func() { e.onCritical(err) })
	}
}
