// Package model provides domain model for flatql
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateColumnName is returned when a file contains duplicate column names
	ErrDuplicateColumnName = errors.New("duplicate column name")

	// ErrEmptyColumnName is returned when a header field is blank after trimming
	ErrEmptyColumnName = errors.New("empty column name")

	// ErrInvalidDialect is returned when a Dialect fails validation
	ErrInvalidDialect = errors.New("invalid dialect")

	// ErrUnsupportedEncoding is returned when an encoding name cannot be resolved
	// or cannot be split at the byte level
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrNoColumnList is returned when a create statement has no column list
	ErrNoColumnList = errors.New("create statement has no column list")

	errInvalidBytes      = errors.New("invalid byte sequence for encoding")
	errUnterminatedQuote = errors.New("unterminated quoted field")
	errNeedEscape        = errors.New("need to escape, but no escape character set")
	errEmptySingleField  = errors.New("single empty field record must be quoted")
	errTrailingEscape    = errors.New("escape character at end of input")
)

// CodecError reports malformed bytes under the configured encoding or malformed
// delimited syntax. Line and Field are 1-based; zero means unknown.
type CodecError struct {
	Line  int
	Field int
	Err   error
}

// Error implements error.
func (e *CodecError) Error() string {
	switch {
	case e.Line > 0 && e.Field > 0:
		return fmt.Sprintf("codec error on line %d, field %d: %v", e.Line, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("codec error on line %d: %v", e.Line, e.Err)
	case e.Field > 0:
		return fmt.Sprintf("codec error in field %d: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("codec error: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *CodecError) Unwrap() error {
	return e.Err
}
