package storage

import (
	"context"
	"strings"
	"time"
)

const (
	resourceSubmission = "submission"
	defaultListLimit   = 50
)

// Submission is a single stored contact-form entry.
type Submission struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Phone     string    `json:"phone" yaml:"phone"`
	Message   string    `json:"message" yaml:"message"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Notified  bool      `json:"notified" yaml:"notified"`
}

// NewSubmission carries the caller-supplied fields of a submission.
type NewSubmission struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Normalize returns a copy with every field trimmed of surrounding whitespace.
func (n NewSubmission) Normalize() NewSubmission {
	return NewSubmission{
		Name:    strings.TrimSpace(n.Name),
		Email:   strings.TrimSpace(n.Email),
		Phone:   strings.TrimSpace(n.Phone),
		Message: strings.TrimSpace(n.Message),
	}
}

// Validate reports the first required field that is blank after trimming.
func (n NewSubmission) Validate() error {
	n = n.Normalize()
	switch {
	case n.Name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case n.Email == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case n.Message == "":
		return &ValidationError{Field: "message", Message: "message is required"}
	}
	return nil
}

// ListFilter narrows a submission listing.
type ListFilter struct {
	// Notified filters on the notified flag when non-nil.
	Notified *bool
	// Query matches name, email or message (case-insensitive substring).
	Query string
	// Limit caps the result size. Zero or negative means 50.
	Limit int
}

func (f ListFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// SubmissionStore defines the interface for persisting contact submissions.
// Submissions are never deleted and their content fields are never updated.
type SubmissionStore interface {
	// Create validates, trims and durably stores a new submission with Notified=false.
	// Returns *ValidationError if name, email or message is blank.
	Create(ctx context.Context, in NewSubmission) (*Submission, error)
	// MarkNotified sets Notified=true. It is a no-op if the flag is already set
	// and returns *NotFoundError if id is unknown.
	MarkNotified(ctx context.Context, id string) error
	// Get returns the submission with the given id or *NotFoundError.
	Get(ctx context.Context, id string) (*Submission, error)
	// List returns submissions ordered by CreatedAt descending.
	List(ctx context.Context, filter ListFilter) ([]*Submission, error)
	// CountPending returns the number of submissions that were never notified.
	CountPending(ctx context.Context) (int, error)
}
