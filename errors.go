package flatql

import (
	"errors"
	"fmt"
	"strings"
)

// Standard errors
var (
	// ErrNotDirectory indicates the dataset path is not a directory
	ErrNotDirectory = errors.New("flatql: path is not a directory")

	// ErrSessionClosed indicates the session was used after Close
	ErrSessionClosed = errors.New("flatql: session closed")

	// ErrUnsupportedCompression indicates the managed suffix names a compression
	// that cannot be written
	ErrUnsupportedCompression = errors.New("flatql: unsupported compression")

	// ErrEmptyFile indicates a managed file has no header row
	ErrEmptyFile = errors.New("flatql: file has no header row")

	// ErrFieldCount indicates a data row has more fields than the header
	ErrFieldCount = errors.New("flatql: wrong number of fields")

	// ErrInvalidTableFileName indicates a table name cannot be used as a file name
	ErrInvalidTableFileName = errors.New("flatql: table name cannot be used as a file name")

	// ErrNoPath indicates the builder has no dataset path
	ErrNoPath = errors.New("flatql: path must be provided")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// String formats the context as a comma separated message
func (ec *ErrorContext) String() string {
	parts := []string{fmt.Sprintf("flatql: %s failed", ec.Operation)}
	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}
	return strings.Join(parts, ", ")
}

// LoadError reports a managed file that failed to parse or insert. The whole
// file is rolled back.
type LoadError struct {
	// File is the path of the file being loaded
	File string
	// Line is the 1-based line where the failing record started, zero if unknown
	Line int
	// Err is the cause
	Err error
}

// Error implements error.
func (e *LoadError) Error() string {
	ec := NewErrorContext("load", e.File)
	if e.Line > 0 {
		ec.WithDetails(fmt.Sprintf("line %d", e.Line))
	}
	return fmt.Sprintf("%s: %v", ec.String(), e.Err)
}

// Unwrap returns the cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// DuplicateTableError reports two managed files that map to the same table.
// Table names compare case-insensitively, like the engine's.
type DuplicateTableError struct {
	// Table is the table name derived from File
	Table string
	// File is the file that collided
	File string
	// Existing is the file that created the table first, empty when the
	// table was already in the engine
	Existing string
}

// Error implements error.
func (e *DuplicateTableError) Error() string {
	ec := NewErrorContext("load", e.File).WithTable(e.Table)
	if e.Existing == "" {
		ec.WithDetails("duplicate table name, table already exists in the engine")
	} else {
		ec.WithDetails("duplicate table name, also loaded from " + e.Existing)
	}
	return ec.String()
}

// EngineError reports a failure from the relational engine. Its message is the
// engine's message.
type EngineError struct {
	// Statement is the statement that failed
	Statement string
	// Err is the engine error
	Err error
}

// Error implements error.
func (e *EngineError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the engine error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// IOError reports a file system failure. During Flush it means the
// directory may be left partially overwritten.
type IOError struct {
	// Op is the failing operation, such as "read directory" or "remove"
	Op string
	// Path is the file or directory involved
	Path string
	// Details is extra context shown in the message, empty for none
	Details string
	// Err is the cause
	Err error
}

// Error implements error.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", NewErrorContext(e.Op, e.Path).WithDetails(e.Details).String(), e.Err)
}

// Unwrap returns the cause.
func (e *IOError) Unwrap() error {
	return e.Err
}
