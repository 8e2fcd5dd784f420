package flatql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nao1215/flatql/domain/model"
	"github.com/nao1215/flatql/engine"
)

// DuplicatePolicy decides what happens when two managed files map to the same
// table name.
type DuplicatePolicy int

const (
	// DuplicateReject fails the load with a DuplicateTableError
	DuplicateReject DuplicatePolicy = iota
	// DuplicateMerge appends the later file's rows to the existing table
	DuplicateMerge
)

// String returns the string representation of DuplicatePolicy
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateMerge:
		return "merge"
	default:
		return "reject"
	}
}

// loader streams managed files into the engine
type loader struct {
	engine       engine.Engine
	dialect      model.Dialect
	policy       DuplicatePolicy
	maxVariables int
	logger       *slog.Logger
	// loaded maps lower-cased table names to the file that created them
	loaded map[string]string
}

// newLoader creates a loader
func newLoader(eng engine.Engine, dialect model.Dialect, policy DuplicatePolicy, logger *slog.Logger) *loader {
	return &loader{
		engine:       eng,
		dialect:      dialect,
		policy:       policy,
		maxVariables: engine.MaxVariables,
		logger:       logger,
		loaded:       make(map[string]string),
	}
}

// loadAll loads files in order. The first failure stops the load.
func (l *loader) loadAll(ctx context.Context, files []tableFile, compression model.CompressionType) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.loadFile(ctx, f, compression); err != nil {
			return err
		}
	}
	return nil
}

// loadFile creates the file's table and inserts its rows in one transaction
func (l *loader) loadFile(ctx context.Context, f tableFile, compression model.CompressionType) error {
	key := strings.ToLower(f.table)
	existing, seen := l.loaded[key]
	if seen && l.policy == DuplicateReject {
		return &DuplicateTableError{Table: f.table, File: f.path, Existing: existing}
	}
	if !seen && l.policy == DuplicateReject {
		// an engine from a custom opener may already hold tables
		exists, err := l.engine.TableExists(ctx, f.table)
		if err != nil {
			return &LoadError{File: f.path, Err: err}
		}
		if exists {
			return &DuplicateTableError{Table: f.table, File: f.path}
		}
	}

	file, err := os.Open(f.path) //nolint:gosec // path comes from listing the dataset directory
	if err != nil {
		return &IOError{Op: "open", Path: f.path, Err: err}
	}
	defer file.Close()

	reader, closer, err := NewCompressionHandler(compression).CreateReader(file)
	if err != nil {
		return &LoadError{File: f.path, Err: err}
	}
	defer func() {
		_ = closer() // Ignore close error on a read-only stream
	}()

	records, err := model.NewReader(reader, l.dialect)
	if err != nil {
		return &LoadError{File: f.path, Err: err}
	}

	header, err := records.Read()
	if errors.Is(err, io.EOF) {
		return &LoadError{File: f.path, Line: 1, Err: ErrEmptyFile}
	}
	if err != nil {
		return l.loadError(f, records, err)
	}
	columns, err := model.ParseHeader(header)
	if err != nil {
		return &LoadError{File: f.path, Line: records.Line(), Err: err}
	}
	if len(columns) > engine.MaxColumnCount {
		return &LoadError{
			File: f.path,
			Line: records.Line(),
			Err:  fmt.Errorf("%w: %d columns, limit is %d", engine.ErrTooManyColumns, len(columns), engine.MaxColumnCount),
		}
	}

	tx, err := l.engine.Begin(ctx)
	if err != nil {
		return &LoadError{File: f.path, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback() // Ignore rollback error, the load error is reported
		}
	}()

	if _, err := tx.ExecContext(ctx, buildCreateTableQuery(f.table, columns)); err != nil {
		return &LoadError{File: f.path, Line: records.Line(), Err: fmt.Errorf("failed to create table %s: %w", f.table, err)}
	}

	rowsPerBatch := batchRows(len(columns), l.maxVariables)
	batch := make([]any, 0, rowsPerBatch*len(columns))
	pending, total := 0, 0
	flush := func() error {
		if pending == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, buildInsertQuery(f.table, columns, pending), batch...); err != nil {
			return &LoadError{File: f.path, Line: records.Line(), Err: fmt.Errorf("failed to insert records: %w", err)}
		}
		total += pending
		pending = 0
		batch = batch[:0]
		return nil
	}

	for {
		record, err := records.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return l.loadError(f, records, err)
		}
		if len(record) > len(columns) {
			return &LoadError{
				File: f.path,
				Line: records.Line(),
				Err:  fmt.Errorf("%w: record has %d fields, header has %d", ErrFieldCount, len(record), len(columns)),
			}
		}
		for i := range columns {
			if i < len(record) {
				batch = append(batch, record[i])
			} else {
				batch = append(batch, "")
			}
		}
		pending++
		if pending == rowsPerBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &LoadError{File: f.path, Err: fmt.Errorf("failed to commit: %w", err)}
	}
	committed = true

	if !seen {
		l.loaded[key] = f.path
	}
	l.logger.Debug("loaded table", "table", f.table, "file", f.path, "rows", total, "merged", seen)
	return nil
}

// loadError wraps a reader failure, taking the line from a codec error when present
func (l *loader) loadError(f tableFile, records *model.Reader, err error) error {
	line := records.Line()
	var codecErr *model.CodecError
	if errors.As(err, &codecErr) && codecErr.Line > 0 {
		line = codecErr.Line
	}
	return &LoadError{File: f.path, Line: line, Err: err}
}
