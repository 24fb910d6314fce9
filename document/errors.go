package document

import (
	"errors"
	"fmt"
)

// Rejection causes. A rejected operation leaves the document and the
// used-identifier set untouched.
var (
	ErrNameNotAllowed  = errors.New("name not allowed")
	ErrColorNotAllowed = errors.New("color not allowed")
	ErrAlreadyExists   = errors.New("button already exists")
	ErrNotFound        = errors.New("button not found")
	ErrMissingAnchor   = errors.New("document has no </body> anchor")
)

// RejectionError reports a validation failure for a single button operation.
type RejectionError struct {
	ID    string
	Color string
	err   error
}

func (e *RejectionError) Error() string {
	if e.Color != "" && errors.Is(e.err, ErrColorNotAllowed) {
		return fmt.Sprintf("%s: %q", e.err, e.Color)
	}
	return fmt.Sprintf("%s: %q", e.err, e.ID)
}

func (e *RejectionError) Unwrap() error {
	return e.err
}

func reject(id, color string, cause error) error {
	return &RejectionError{ID: id, Color: color, err: cause}
}

// IsRejection returns true if err is a validation rejection rather than an
// I/O failure.
func IsRejection(err error) bool {
	var rejection *RejectionError
	return errors.As(err, &rejection)
}
