package source

import (
	"errors"
	"fmt"
)

// ErrFieldCount is reported when a record does not have exactly the expected number of fields.
var ErrFieldCount = errors.New("wrong number of fields")

// ErrUnterminatedQuote is reported when the input ends inside a quoted field.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// ReadError means that the backing store could not be opened or read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading contacts from %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ParseError means that a record of the backing store could not be turned into a contact. Line
// is the 1-based line (or row) number at which the record starts. Field is empty if the record
// as a whole is malformed.
type ParseError struct {
	Path  string
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		msg = e.Path + ":" + msg
	}
	if e.Field != "" {
		msg += ": field " + e.Field
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
