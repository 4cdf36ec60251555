package model

import (
	"errors"
	"fmt"
)

// ErrEmptyKey is returned by Key.Validate when a key component is empty.
var ErrEmptyKey = errors.New("empty key component")

// Key is the composite identity of a record.
// It is unique across a store.
type Key struct {
	Word string
	Form string
}

// String returns a string representation of the Key.
func (k Key) String() string {
	return fmt.Sprintf("(%q, %q)", k.Word, k.Form)
}

// Validate reports whether both key components are non-empty.
func (k Key) Validate() error {
	if k.Word == "" {
		return fmt.Errorf("%w: word", ErrEmptyKey)
	}
	if k.Form == "" {
		return fmt.Errorf("%w: form", ErrEmptyKey)
	}
	return nil
}

// Record represents one form of a word and its description.
type Record struct {
	Word        string `json:"word"`
	Form        string `json:"form"`
	Description string `json:"description"`
}

// Key returns the composite key of the record.
func (r Record) Key() Key {
	return Key{Word: r.Word, Form: r.Form}
}
