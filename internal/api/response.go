package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// ErrBadRequest is returned by DecodeBody for a missing, empty or malformed
// body.
var ErrBadRequest = errors.New("bad request")

// Envelope wraps every response body.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// WriteJSON marshals v as JSON and writes it to w with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// WriteSuccess writes data in a successful envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteFailure writes data in a failed envelope.
func WriteFailure(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: false, Data: data})
}

// DecodeBody decodes the JSON request body into v. A missing body, an
// empty object, an empty array and null are all rejected.
func DecodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", ErrBadRequest)
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrBadRequest, err)
	}
	if len(b) > maxBodySize {
		return fmt.Errorf("%w: request body too large", ErrBadRequest)
	}
	switch string(bytes.Join(bytes.Fields(b), nil)) {
	case "", "{}", "[]", "null":
		return fmt.Errorf("%w: request body is required", ErrBadRequest)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrBadRequest, err)
	}
	return nil
}
