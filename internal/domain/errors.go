package domain

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// InvalidInputError reports a malformed or empty request. It is not retryable.
type InvalidInputError struct {
	Err error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// NotFoundError reports a referenced entity that does not exist in the tenant scope.
type NotFoundError struct {
	Resource string
	IDs      []string
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) == 1 {
		return fmt.Sprintf("%s %q not found", e.Resource, e.IDs[0])
	}
	return fmt.Sprintf("%s not found: %q", e.Resource, e.IDs)
}

// UpstreamError reports an unavailable collaborator (database, cache).
// The whole request is safe to retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream unavailable: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Invalid wraps a message into an InvalidInputError.
func Invalid(format string, args ...any) error {
	return &InvalidInputError{Err: fmt.Errorf(format, args...)}
}

// ValidationErrors accumulates field problems so a caller sees all of them at once.
type ValidationErrors struct {
	merr *multierror.Error
}

func (v *ValidationErrors) Add(format string, args ...any) {
	v.merr = multierror.Append(v.merr, fmt.Errorf(format, args...))
}

// Err returns nil when nothing was added, otherwise an InvalidInputError.
func (v *ValidationErrors) Err() error {
	if v.merr == nil || len(v.merr.Errors) == 0 {
		return nil
	}
	v.merr.ErrorFormat = func(errs []error) string {
		msg := ""
		for i, err := range errs {
			if i > 0 {
				msg += "; "
			}
			msg += err.Error()
		}
		return msg
	}
	return &InvalidInputError{Err: v.merr}
}

func IsInvalidInput(err error) bool {
	var e *InvalidInputError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsUpstream(err error) bool {
	var e *UpstreamError
	return errors.As(err, &e)
}

// ValidateStops checks that the stop set is non-empty and every stop has usable coordinates.
func ValidateStops(stops []Stop) error {
	var v ValidationErrors
	if len(stops) == 0 {
		v.Add("at least one stop is required")
	}
	for i, s := range stops {
		if err := s.Coordinates.Validate(); err != nil {
			v.Add("stop %d (%s): %v", i+1, s.ID, err)
		}
		if s.WeightKg < 0 {
			v.Add("stop %d (%s): weight must not be negative", i+1, s.ID)
		}
	}
	return v.Err()
}
