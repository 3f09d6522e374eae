package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidKind    = errors.New("invalid allocation kind")
	ErrMalformedInput = errors.New("malformed input")
)

// NotFoundError reports a referenced entity that is absent from storage
type NotFoundError struct {
	Entity string // "worker", "task", "allocation", "block"
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound builds a NotFoundError
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidKindError reports an allocation of the wrong kind for the requested operation.
// It also matches ErrNotFound: no allocation of the requested kind exists under that id.
type InvalidKindError struct {
	AllocationID string
	Want         string
	Got          string
}

func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("allocation %q is a %s, expected a %s", e.AllocationID, e.Got, e.Want)
}

func (e *InvalidKindError) Is(target error) bool {
	return target == ErrInvalidKind || target == ErrNotFound
}

// InvalidKind builds an InvalidKindError
func InvalidKind(allocationID, want, got string) error {
	return &InvalidKindError{AllocationID: allocationID, Want: want, Got: got}
}

// MalformedInputError reports an unparseable value at the input boundary.
// Field is the label of the offending field (e.g. "deadline").
type MalformedInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// Malformed builds a MalformedInputError
func Malformed(field, value, reason string) error {
	return &MalformedInputError{Field: field, Value: value, Reason: reason}
}

// IsNotFound reports whether err (or anything it wraps) is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
