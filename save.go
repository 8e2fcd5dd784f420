package flatql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nao1215/flatql/domain/model"
	"github.com/nao1215/flatql/engine"
)

// SchemaSource selects how Flush learns a table's columns.
type SchemaSource int

const (
	// SchemaFromIntrospection asks the engine for structured column info and
	// falls back to the stored CREATE statement when that fails
	SchemaFromIntrospection SchemaSource = iota
	// SchemaFromCreateStatement parses the stored CREATE statement only
	SchemaFromCreateStatement
)

// String returns the string representation of SchemaSource
func (s SchemaSource) String() string {
	switch s {
	case SchemaFromCreateStatement:
		return "create-statement"
	default:
		return "introspection"
	}
}

const (
	// defaultFileMode is used for files that did not exist before the flush
	defaultFileMode os.FileMode = 0o644
	// stagePattern names staged files; the leading dot keeps them hidden
	stagePattern = ".flatql-*.tmp"
	// partialWriteDetails is attached to failures after files were removed
	partialWriteDetails = "directory may be partially overwritten"
)

// stagedFile is a table written to a temporary file and waiting to be renamed
type stagedFile struct {
	table string
	temp  string
	final string
}

// saver writes every table of the engine back to the dataset directory
type saver struct {
	engine       engine.Engine
	dialect      model.Dialect
	suffix       model.Suffix
	schemaSource SchemaSource
	dir          string
	logger       *slog.Logger
}

// Flush writes every table to "<table>.<suffix>" in the dataset directory and
// removes managed files whose table no longer exists. Tables are written to
// temporary files first, so a table that cannot be encoded leaves the
// directory untouched. Removing and renaming are not atomic: an *IOError from
// that stage means the directory may be partially overwritten.
//
// Flush leaves the changed flag set, so Close writes the dataset again if
// the session changed.
func (s *Session) Flush(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	sv := &saver{
		engine:       s.engine,
		dialect:      s.dialect,
		suffix:       s.suffix,
		schemaSource: s.schemaSource,
		dir:          s.dir,
		logger:       s.logger,
	}
	return sv.save(ctx)
}

// save stages, removes and renames
func (sv *saver) save(ctx context.Context) (err error) {
	if err := newValidator().validateWritable(sv.suffix); err != nil {
		return err
	}

	existing, err := newFileProcessor(sv.suffix).collectTableFiles(sv.dir)
	if err != nil {
		return err
	}

	tables, err := sv.engine.TableNames(ctx)
	if err != nil {
		return &EngineError{Statement: "list tables", Err: err}
	}

	staged := make([]stagedFile, 0, len(tables))
	defer func() {
		if err == nil {
			return
		}
		for _, f := range staged {
			_ = os.Remove(f.temp) // Ignore, the temp file may already be renamed
		}
	}()

	for _, table := range tables {
		f, stageErr := sv.stageTable(ctx, table)
		if stageErr != nil {
			return stageErr
		}
		staged = append(staged, f)
	}

	for _, f := range existing {
		if rmErr := os.Remove(f.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return &IOError{Op: "remove", Path: f.path, Details: partialWriteDetails, Err: rmErr}
		}
	}
	for _, f := range staged {
		if mvErr := os.Rename(f.temp, f.final); mvErr != nil {
			return &IOError{Op: "rename", Path: f.final, Details: partialWriteDetails, Err: mvErr}
		}
	}

	sv.logger.Info("dataset written", "dir", sv.dir, "tables", len(staged), "removed", len(existing))
	return nil
}

// stageTable writes one table to a temporary file in the dataset directory
func (sv *saver) stageTable(ctx context.Context, table string) (stagedFile, error) {
	if err := validateTableFileName(table); err != nil {
		return stagedFile{}, &IOError{Op: "stage", Path: table, Err: err}
	}
	final := filepath.Join(sv.dir, sv.suffix.FileName(table))

	columns, err := sv.tableColumns(ctx, table)
	if err != nil {
		return stagedFile{}, err
	}

	temp, err := os.CreateTemp(sv.dir, stagePattern)
	if err != nil {
		return stagedFile{}, &IOError{Op: "create temp file", Path: sv.dir, Err: err}
	}
	staged := stagedFile{table: table, temp: temp.Name(), final: final}

	writeErr := sv.writeTable(ctx, temp, table, columns)
	closeErr := temp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(staged.temp) // Ignore, reporting the write error
		return stagedFile{}, err
	}
	if err := os.Chmod(staged.temp, fileMode(final)); err != nil {
		_ = os.Remove(staged.temp) // Ignore, reporting the chmod error
		return stagedFile{}, &IOError{Op: "chmod", Path: staged.temp, Err: err}
	}
	return staged, nil
}

// writeTable writes the header and every row of table to file
func (sv *saver) writeTable(ctx context.Context, file *os.File, table string, columns []model.Column) error {
	out, closer, err := NewCompressionHandler(sv.suffix.Compression()).CreateWriter(file)
	if err != nil {
		return err
	}
	w, err := model.NewWriter(out, sv.dialect)
	if err != nil {
		return err
	}
	if err := w.Write(model.HeaderFields(columns)); err != nil {
		return fmt.Errorf("table %s: header: %w", table, err)
	}

	statement := buildSelectAllQuery(table, columns)
	result, err := sv.engine.Query(ctx, statement)
	if err != nil {
		return &EngineError{Statement: statement, Err: err}
	}
	defer result.Close()

	rows := 0
	for result.Next() {
		record, err := result.Text()
		if err != nil {
			return &EngineError{Statement: statement, Err: err}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("table %s: row %d: %w", table, rows+1, err)
		}
		rows++
	}
	if err := result.Err(); err != nil {
		return &EngineError{Statement: statement, Err: err}
	}
	if err := w.Flush(); err != nil {
		return &IOError{Op: "write", Path: file.Name(), Err: err}
	}
	if err := closer(); err != nil {
		return &IOError{Op: "compress", Path: file.Name(), Err: err}
	}
	sv.logger.Debug("table staged", "table", table, "rows", rows, "columns", len(columns))
	return nil
}

// tableColumns returns the columns of table according to the schema source
func (sv *saver) tableColumns(ctx context.Context, table string) ([]model.Column, error) {
	if sv.schemaSource == SchemaFromIntrospection {
		infos, err := sv.engine.Columns(ctx, table)
		if err == nil && len(infos) > 0 {
			columns := make([]model.Column, len(infos))
			for i, info := range infos {
				columns[i] = model.NewColumnFromSchema(info.Name, info.Type)
			}
			return columns, nil
		}
		sv.logger.Warn("column introspection failed, parsing create statement", "table", table, "error", err)
	}

	stmt, err := sv.engine.CreateStatement(ctx, table)
	if err != nil {
		return nil, &EngineError{Statement: "schema of " + table, Err: err}
	}
	columns, err := model.ParseCreateStatement(stmt)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}
	return columns, nil
}
