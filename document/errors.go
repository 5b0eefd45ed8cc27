package document

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound matches every *KeyNotFoundError.
	ErrKeyNotFound = errors.New("key not found")

	// ErrConversion matches every *ConversionError.
	ErrConversion = errors.New("cannot convert value")

	// ErrMalformed indicates text that is not a well-formed document.
	ErrMalformed = errors.New("malformed document")

	// ErrPath indicates an invalid JSONPath expression.
	ErrPath = errors.New("invalid JSONPath expression")
)

// KeyNotFoundError reports a key that is absent from a document.
type KeyNotFoundError struct {
	Key string
	// Document is the JSON rendering of the document at the time of the lookup.
	Document string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in %s", e.Key, e.Document)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// ConversionError reports a stored value whose shape does not fit the
// requested type.
type ConversionError struct {
	// Value is the JSON rendering of the stored value.
	Value string
	// Type is the requested Go type.
	Type string
	Err  error
}

func (e *ConversionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot convert %s to %s", e.Value, e.Type)
	}
	return fmt.Sprintf("cannot convert %s to %s: %v", e.Value, e.Type, e.Err)
}

func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
