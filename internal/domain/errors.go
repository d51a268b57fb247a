package domain

import (
	"errors"
	"fmt"
)

// StoreErrorKind classifies a persistence failure.
type StoreErrorKind int

const (
	StoreUnavailable StoreErrorKind = iota
	StoreNotFound
	StorePermissionDenied
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreNotFound:
		return "not_found"
	case StorePermissionDenied:
		return "permission_denied"
	default:
		return "unavailable"
	}
}

// StoreError is returned by repository adapters when the backing store fails.
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// StoreErrorKindOf reports the kind of the first StoreError in err's chain.
// Errors that are not StoreErrors count as StoreUnavailable.
func StoreErrorKindOf(err error) StoreErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return StoreUnavailable
}
