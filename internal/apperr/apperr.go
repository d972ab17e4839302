// Package apperr defines the error taxonomy shared by the workflow layers so
// the HTTP boundary can map failures to statuses with errors.Is / errors.As.
package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates a missing session or a role mismatch.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned on login failure. The message is
	// deliberately the same for unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrDuplicateUsername indicates the username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateRecord indicates an attendance record already exists for
	// the matric number.
	ErrDuplicateRecord = errors.New("attendance already submitted for this matric number")
	// ErrRecordInactive indicates the matric number's record has been
	// deactivated by a lecturer.
	ErrRecordInactive = errors.New("account is deactivated, please contact the administrator")
)

// Validation reports missing or malformed input fields.
type Validation struct {
	Fields []string
}

func (e *Validation) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// NewValidation builds a Validation error for the named fields.
func NewValidation(fields ...string) error {
	return &Validation{Fields: fields}
}

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool {
	var v *Validation
	return errors.As(err, &v)
}
