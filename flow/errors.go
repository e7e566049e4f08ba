package flow

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a flow returns is an *Error carrying one of them,
// so callers can branch with errors.Is(err, ErrValidation).
var (
	ErrValidation = fmt.Errorf("validation error")
	ErrIdentity   = fmt.Errorf("identity error")
	ErrSubmission = fmt.Errorf("submission error")
	ErrFetch      = fmt.Errorf("fetch error")
	ErrLookup     = fmt.Errorf("lookup error")
	ErrPermission = fmt.Errorf("permission error")
	ErrAuth       = fmt.Errorf("auth error")
	ErrLocation   = fmt.Errorf("location error")
)

var (
	ErrMissingField      = fmt.Errorf("missing required field")
	ErrNoSession         = fmt.Errorf("no active session")
	ErrEmptyRecordID     = fmt.Errorf("record store returned no id")
	ErrPermissionDenied  = fmt.Errorf("location permission denied")
	ErrInvalidScope      = fmt.Errorf("invalid scope")
	ErrNoCategory        = fmt.Errorf("no category to look up")
	ErrTooManyCategories = fmt.Errorf("too many categories to look up")
	ErrInvalidPlace      = fmt.Errorf("invalid place in directory response")
)

type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of e
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// KindOf returns the kind of a flow error, or nil for other errors
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

func newError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
