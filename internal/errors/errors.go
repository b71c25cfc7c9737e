// internal/errors/errors.go
package errors

import "fmt"

// ErrInvalidFullName is returned when a repository full name is not in 'owner/name' format.
type ErrInvalidFullName struct {
	FullName string
}

func (e *ErrInvalidFullName) Error() string {
	return fmt.Sprintf("invalid repository full name: %q, expected 'owner/name'", e.FullName)
}

// ErrMissingAccount is returned when an installation payload carries no account login.
type ErrMissingAccount struct {
	Event string
}

func (e *ErrMissingAccount) Error() string {
	return fmt.Sprintf("event %q has no installation account login", e.Event)
}
