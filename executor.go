package flatql

import (
	"context"
	"fmt"
)

// Execute runs statement. A statement that produces a result set is written
// to the session output in the session dialect, header first. Any other
// statement marks the session changed once it has run. Input holding several
// statements is split with SplitStatements and each one is classified on its
// own; input holding only comments does nothing. An engine failure is
// reported to the error output with the engine's message and returned as an
// *EngineError; the session stays usable.
func (s *Session) Execute(ctx context.Context, statement string) error {
	if s.closed {
		return ErrSessionClosed
	}
	for _, stmt := range SplitStatements(statement) {
		if err := s.executeStatement(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteScript runs every statement of script in order, stopping at the
// first error.
func (s *Session) ExecuteScript(ctx context.Context, script string) error {
	return s.Execute(ctx, script)
}

// executeStatement runs a single statement
func (s *Session) executeStatement(ctx context.Context, statement string) error {
	result, err := s.engine.Query(ctx, statement)
	if err != nil {
		return s.engineError(statement, err)
	}
	defer result.Close()

	if !result.HasResultSet() {
		if err := result.Drain(); err != nil {
			return s.engineError(statement, err)
		}
		s.changed = true
		s.logger.Debug("statement executed", "mutating", true)
		return nil
	}

	w, err := s.resultWriter()
	if err != nil {
		return err
	}
	if err := w.Write(result.Columns()); err != nil {
		return err
	}
	rows := 0
	for result.Next() {
		record, err := result.Text()
		if err != nil {
			return s.engineError(statement, err)
		}
		if err := w.Write(record); err != nil {
			return err
		}
		rows++
	}
	// Rows read so far stay written even if stepping fails later
	flushErr := w.Flush()
	if err := result.Err(); err != nil {
		return s.engineError(statement, err)
	}
	if flushErr != nil {
		return fmt.Errorf("failed to write result: %w", flushErr)
	}
	s.logger.Debug("statement executed", "mutating", false, "rows", rows)
	return nil
}

// engineError reports an engine failure on the error output
func (s *Session) engineError(statement string, err error) error {
	engineErr := &EngineError{Statement: statement, Err: err}
	if s.errOut != nil {
		_, _ = fmt.Fprintln(s.errOut, engineErr.Error())
	}
	s.logger.Debug("statement failed", "error", engineErr.Error())
	return engineErr
}
