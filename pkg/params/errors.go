package params

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnknownKind  = errors.New("unknown parameter kind")
	ErrMissingField = errors.New("missing required field")
	ErrInvalidValue = errors.New("invalid value")
)

// SetError wraps an error with parameter set context (kind and name).
type SetError struct {
	Kind string
	Name string
	Err  error
}

func (e *SetError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s/%s: %v", e.Kind, e.Name, e.Err)
}

func (e *SetError) Unwrap() error {
	return e.Err
}

func NewSetError(kind, name string, err error) *SetError {
	return &SetError{Kind: kind, Name: name, Err: err}
}

// UnusedKeysError indicates keys that no field of the parameter set consumed.
// This is not necessarily a hard error - the caller decides based on strict mode.
type UnusedKeysError struct {
	Keys []string
}

func (e *UnusedKeysError) Error() string {
	return fmt.Sprintf("unknown key(s): %v", e.Keys)
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidValue, format, args...)
}
