package service

import (
	"fmt"

	"github.com/smdata-dev/smdata/internal/storage"
)

// NotFoundError is returned when a requested resource does not exist.
type NotFoundError = storage.NotFoundError

// ValidationError is returned when request data fails validation.
type ValidationError = storage.ValidationError

// PersistenceError is returned when the submission store cannot complete a
// write or read. It is fatal to the request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError describes a notification that could not be delivered.
// It is logged and counted, never returned from Submit.
type NotificationError struct {
	SubmissionID string
	Backend      string
	Detail       string
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification for submission %q via %s failed: %s", e.SubmissionID, e.Backend, e.Detail)
}
