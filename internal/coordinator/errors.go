package coordinator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation means the request is missing or has malformed input.
	ErrValidation = errors.New("validation error")
	// ErrInvalidRemoteResponse means the CRM answered successfully but
	// without the type IDs the operation needs.
	ErrInvalidRemoteResponse = errors.New("invalid remote response")
	// ErrRemoteRejected means a batch call succeeded but the CRM rejected
	// some of its inputs.
	ErrRemoteRejected = errors.New("remote rejected batch inputs")
)

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func missingFields(fields []string) error {
	return validation("missing required fields: %s", strings.Join(fields, ", "))
}

// PartialFailureError reports a dual write where one side succeeded and the
// other failed. Nothing is rolled back; the systems may have diverged.
type PartialFailureError struct {
	Operation       string
	RemoteSucceeded bool
	LocalSucceeded  bool
	Err             error
}

func (e *PartialFailureError) Error() string {
	side := "local"
	if e.LocalSucceeded {
		side = "remote"
	}
	return fmt.Sprintf("%s: %s side failed: %v", e.Operation, side, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

// settle combines the outcomes of a paired remote and local write.
func settle(op string, remoteErr, localErr error) error {
	switch {
	case remoteErr == nil && localErr == nil:
		return nil
	case remoteErr != nil && localErr != nil:
		return fmt.Errorf("%s: %w", op, errors.Join(remoteErr, localErr))
	case remoteErr != nil:
		return &PartialFailureError{Operation: op, LocalSucceeded: true, Err: remoteErr}
	default:
		return &PartialFailureError{Operation: op, RemoteSucceeded: true, Err: localErr}
	}
}
