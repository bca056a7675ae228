package api_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnwards/assocsync/internal/api"
	"github.com/johnwards/assocsync/internal/coordinator"
	"github.com/johnwards/assocsync/internal/hubspot"
	"github.com/johnwards/assocsync/internal/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   string
		wantStatus int
	}{
		{"bad request", fmt.Errorf("%w: empty", api.ErrBadRequest), api.KindValidation, http.StatusBadRequest},
		{"validation", fmt.Errorf("%w: missing", coordinator.ErrValidation), api.KindValidation, http.StatusBadRequest},
		{"not found", fmt.Errorf("get: %w", store.ErrNotFound), api.KindNotFound, http.StatusNotFound},
		{"conflict", store.ErrConflict, api.KindConflict, http.StatusConflict},
		{"invalid response", coordinator.ErrInvalidRemoteResponse, api.KindInvalidResponse, http.StatusUnprocessableEntity},
		{"remote", &hubspot.APIError{StatusCode: 400}, api.KindRemote, http.StatusInternalServerError},
		{"timeout", hubspot.ErrTimeout, api.KindRemote, http.StatusInternalServerError},
		{"partial", &coordinator.PartialFailureError{Err: store.ErrNotFound}, api.KindPartial, http.StatusInternalServerError},
		{"store", store.ErrUnavailable, api.KindStore, http.StatusInternalServerError},
		{"other", errors.New("boom"), api.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, status := api.Classify(tt.err)
			if kind != tt.wantKind || status != tt.wantStatus {
				t.Errorf("Classify = (%s, %d), want (%s, %d)", kind, status, tt.wantKind, tt.wantStatus)
			}
		})
	}
}

func TestReportNotFoundMessage(t *testing.T) {
	reporter := api.NewErrorReporter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/associations/x", http.NoBody)

	reporter.Report(rec, req, "get association", store.ErrNotFound, "Association not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var env api.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success || env.Data != "Association not found" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestReportPartialFailure(t *testing.T) {
	reporter := api.NewErrorReporter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/associations/mappings", http.NoBody)

	err := &coordinator.PartialFailureError{Operation: "create mapping", LocalSucceeded: true, Err: hubspot.ErrTimeout}
	reporter.Report(rec, req, "create mapping", err, "")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var body struct {
		Success bool               `json:"success"`
		Data    api.PartialFailure `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Data.LocalSucceeded || body.Data.RemoteSucceeded {
		t.Errorf("data = %+v, want only local succeeded", body.Data)
	}
	if body.Data.Message == "" {
		t.Error("message is empty")
	}
}

func TestReportCriticalFiresOnce(t *testing.T) {
	var calls int
	reporter := api.NewErrorReporter(func(error) { calls++ })
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	reporter.Report(httptest.NewRecorder(), req, "get", fmt.Errorf("get: %w", store.ErrUnavailable), "")
	reporter.Report(httptest.NewRecorder(), req, "get", store.ErrUnavailable, "")
	reporter.Report(httptest.NewRecorder(), req, "get", store.ErrNotFound, "")

	if calls != 1 {
		t.Errorf("critical hook calls = %d, want 1", calls)
	}
}

func TestReportNonCriticalNeverFires(t *testing.T) {
	reporter := api.NewErrorReporter(func(error) { t.Error("critical hook fired") })
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	reporter.Report(httptest.NewRecorder(), req, "save", errors.New("boom"), "")
	reporter.Report(httptest.NewRecorder(), req, "save", &hubspot.APIError{StatusCode: 503}, "")
}
