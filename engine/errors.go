package engine

import "errors"

var (
	// ErrClosed is returned when the engine is used after Close
	ErrClosed = errors.New("engine: closed")

	// ErrTooManyColumns is returned when a table would exceed SQLite's column limit
	ErrTooManyColumns = errors.New("engine: too many columns")
)

// Error wraps a failure reported by the relational engine. Its message is the
// engine's own message so it can be shown to users unchanged.
type Error struct {
	// Op names the engine operation that failed
	Op string
	// Err is the error returned by the driver
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the driver error.
func (e *Error) Unwrap() error {
	return e.Err
}

// wrap returns nil for nil errors and an *Error otherwise
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ee *Error
	if errors.As(err, &ee) {
		return err
	}
	return &Error{Op: op, Err: err}
}
