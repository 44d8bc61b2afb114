package casestudies

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("case study not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

// InvalidEntityError reports why a case study could not be constructed.
type InvalidEntityError struct {
	Reason string
}

func (e *InvalidEntityError) Error() string {
	return "invalid case study: " + e.Reason
}

// PersistenceError wraps a failure of the record store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("case study store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
