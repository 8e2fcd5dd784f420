package engine

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"
)

// MaxColumnCount is SQLite's default limit on the number of columns in a table
const MaxColumnCount = 2000

// MaxVariables is SQLite's default limit on bound parameters per statement
const MaxVariables = 32766

// timeFormat matches the text form SQLite uses for date and time values
const timeFormat = "2006-01-02 15:04:05.999999999-07:00"

// Engine is the relational engine collaborator.
type Engine interface {
	// Query runs one statement and returns its result. Statements that
	// produce no result set return a Result with no columns; the statement
	// has fully run once Drain or Close returns.
	Query(ctx context.Context, query string, args ...any) (*Result, error)
	// Exec runs one statement that produces no rows.
	Exec(ctx context.Context, query string, args ...any) error
	// Begin starts a transaction.
	Begin(ctx context.Context) (Tx, error)
	// TableNames lists user tables, excluding engine internal tables.
	TableNames(ctx context.Context) ([]string, error)
	// TableExists reports whether a table exists. Names compare case-insensitively.
	TableExists(ctx context.Context, name string) (bool, error)
	// Columns returns a table's columns from structured schema introspection.
	Columns(ctx context.Context, table string) ([]ColumnInfo, error)
	// CreateStatement returns the stored CREATE TABLE text for a table.
	CreateStatement(ctx context.Context, table string) (string, error)
	// Close releases the store. It is safe to call more than once.
	Close() error
}

// Tx is a transaction started by Engine.Begin.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}

// ColumnInfo describes a column as reported by the engine's schema.
type ColumnInfo struct {
	Name string
	Type string
}

// Result is the outcome of Engine.Query.
type Result struct {
	rows    *sql.Rows
	columns []string
	values  []any
	ptrs    []any
}

// newResult wraps rows and reads their column metadata
func newResult(rows *sql.Rows) (*Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, wrap("columns", err)
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	return &Result{rows: rows, columns: columns, values: values, ptrs: ptrs}, nil
}

// Columns returns the result set's column names. It is empty when the
// statement produced no result set.
func (r *Result) Columns() []string {
	return r.columns
}

// HasResultSet reports whether the statement produced column metadata.
func (r *Result) HasResultSet() bool {
	return len(r.columns) > 0
}

// Next advances to the next row.
func (r *Result) Next() bool {
	return r.rows.Next()
}

// Values returns the current row's values. The slice is reused by the next call.
func (r *Result) Values() ([]any, error) {
	if err := r.rows.Scan(r.ptrs...); err != nil {
		return nil, wrap("scan", err)
	}
	return r.values, nil
}

// Text returns the current row's values rendered as text.
func (r *Result) Text() ([]string, error) {
	values, err := r.Values()
	if err != nil {
		return nil, err
	}
	record := make([]string, len(values))
	for i, v := range values {
		record[i] = Text(v)
	}
	return record, nil
}

// Drain steps through any remaining rows so the statement runs to completion.
func (r *Result) Drain() error {
	for r.rows.Next() {
	}
	return r.Err()
}

// Err returns the error, if any, encountered during iteration.
func (r *Result) Err() error {
	return wrap("step", r.rows.Err())
}

// Close releases the result.
func (r *Result) Close() error {
	return wrap("close", r.rows.Close())
}

// Text renders an engine value as field text. NULL becomes the empty string,
// integral floats keep a ".0" so they stay distinguishable from integers.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if x == math.Trunc(x) && !math.IsInf(x, 0) && math.Abs(x) < 1e16 {
			s = strconv.FormatFloat(x, 'f', 1, 64)
		}
		return s
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.Format(timeFormat)
	default:
		return fmt.Sprint(x)
	}
}
