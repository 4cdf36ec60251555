package formdb

import (
	"errors"
	"fmt"
)

var (
	// ErrIntegrity is matched by errors that report a dump breaking the
	// uniqueness or validity rules of the index.
	ErrIntegrity = errors.New("integrity violation")

	// ErrInvalidCount is the panic value cause for a non-positive count.
	ErrInvalidCount = errors.New("count must be positive")
)

// ErrDuplicateKey indicates that a dump holds the same (word, form) key twice.
// It matches ErrIntegrity.
type ErrDuplicateKey struct {
	Word string
	Form string
}

func (e *ErrDuplicateKey) Error() string {
	return fmt.Sprintf("duplicate key %s", Key{Word: e.Word, Form: e.Form})
}

func (e *ErrDuplicateKey) Unwrap() error { return ErrIntegrity }

// ErrInvalidRecord indicates a dump row with an empty word or form.
// It matches ErrIntegrity.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidRecord struct {
	Row    int // zero-based position in the dump
	Record Record
	cause  error
}

func (e *ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid record at row %d: %v", e.Row, e.cause)
}

func (e *ErrInvalidRecord) Unwrap() error { return e.cause }

// Is reports whether target is ErrIntegrity.
func (e *ErrInvalidRecord) Is(target error) bool { return target == ErrIntegrity }

// StoreError reports a failed backend call together with the store
// operation that issued it ("load", "update" or "delete").
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("formdb: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
