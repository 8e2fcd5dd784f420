package flatql

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nao1215/flatql/domain/model"
	"github.com/nao1215/flatql/engine"
)

// Session is a dataset directory loaded into the engine. Statements run
// against it through Execute and ExecuteScript. When any statement produced
// no result set the session is marked changed, and Close writes every table
// back to the directory.
//
// A Session is not safe for concurrent use.
type Session struct {
	dir          string
	dialect      model.Dialect
	suffix       model.Suffix
	schemaSource SchemaSource
	engine       engine.Engine
	logger       *slog.Logger

	out    io.Writer
	errOut io.Writer
	writer *model.Writer

	changed   bool
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// Dir returns the dataset directory.
func (s *Session) Dir() string {
	return s.dir
}

// Dialect returns the dialect used to read and write managed files.
func (s *Session) Dialect() model.Dialect {
	return s.dialect
}

// Changed reports whether a mutating statement ran in this session. It is
// never reset.
func (s *Session) Changed() bool {
	return s.changed
}

// MarkChanged forces the next Close to write the dataset back.
func (s *Session) MarkChanged() {
	s.changed = true
}

// TableNames lists the session's tables in creation order.
func (s *Session) TableNames(ctx context.Context) ([]string, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	names, err := s.engine.TableNames(ctx)
	if err != nil {
		return nil, &EngineError{Statement: "list tables", Err: err}
	}
	return names, nil
}

// Close flushes the dataset if it changed and then releases the engine. The
// engine is released exactly once, even when the flush fails. Calling Close
// again returns the first result.
func (s *Session) Close() error {
	return s.CloseContext(context.Background())
}

// CloseContext is Close with a context for the flush.
func (s *Session) CloseContext(ctx context.Context) error {
	s.closeOnce.Do(func() {
		var flushErr error
		if s.changed {
			flushErr = s.Flush(ctx)
		}
		s.closed = true

		closeErr := s.engine.Close()
		switch {
		case flushErr != nil && closeErr != nil:
			s.closeErr = fmt.Errorf("flush failed: %w (also failed to close engine: %w)", flushErr, closeErr)
		case flushErr != nil:
			s.closeErr = fmt.Errorf("flush failed: %w", flushErr)
		case closeErr != nil:
			s.closeErr = fmt.Errorf("failed to close engine: %w", closeErr)
		}
	})
	return s.closeErr
}

// resultWriter returns the codec writer for the session's output, creating it
// on first use.
func (s *Session) resultWriter() (*model.Writer, error) {
	if s.writer != nil {
		return s.writer, nil
	}
	w, err := model.NewWriter(s.out, s.dialect)
	if err != nil {
		return nil, err
	}
	s.writer = w
	return w, nil
}
