package audit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAction indicates the action is not part of the known action set.
	ErrInvalidAction = errors.New("invalid activity action")
	// ErrMissingOldInstance indicates an UPDATE was logged without the prior state.
	ErrMissingOldInstance = errors.New("old instance is required for update actions")
	// ErrEmptyBatch indicates a bulk operation was logged without instances.
	ErrEmptyBatch = errors.New("bulk operation requires at least one instance")
	// ErrMissingEntityID indicates a model mutation record has no entity id.
	ErrMissingEntityID = errors.New("entity id is required for model mutations")
	// ErrSerialization is matched by every SerializationError.
	ErrSerialization = errors.New("entity serialization failed")
	// ErrPersistence is matched by every PersistenceError.
	ErrPersistence = errors.New("activity log persistence failed")
)

// SerializationError reports the field that could not be converted into a
// storable snapshot value.
type SerializationError struct {
	Entity string
	Field  string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize %s.%s: %v", e.Entity, e.Field, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrSerialization) hold.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerialization
}

// PersistenceError wraps a store failure.
type PersistenceError struct {
	Action string
	Entity string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %s activity: %v", e.Action, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPersistence) hold.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
