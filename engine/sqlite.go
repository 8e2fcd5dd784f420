package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

const (
	// driverName is the database/sql name registered by modernc.org/sqlite
	driverName = "sqlite"
	// memoryDSN opens a private in-memory database
	memoryDSN = ":memory:"
)

// SQLite is an Engine backed by an in-memory SQLite database. Every in-memory
// SQLite connection is a separate database, so all work goes through one
// connection pinned at open time.
type SQLite struct {
	db   *sql.DB
	conn *sql.Conn

	closeOnce sync.Once
	closeErr  error
	closed    bool
}

var _ Engine = (*SQLite)(nil)

// OpenSQLite opens an empty in-memory SQLite database.
func OpenSQLite(ctx context.Context) (*SQLite, error) {
	db, err := sql.Open(driverName, memoryDSN)
	if err != nil {
		return nil, wrap("open", fmt.Errorf("failed to create in-memory database: %w", err))
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	conn, err := db.Conn(ctx)
	if err != nil {
		closeErr := db.Close()
		return nil, wrap("open", errors.Join(err, closeErr))
	}
	return &SQLite{db: db, conn: conn}, nil
}

// Query implements Engine.
func (s *SQLite) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	if s.closed {
		return nil, ErrClosed
	}
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("query", err)
	}
	return newResult(rows)
}

// Exec implements Engine.
func (s *SQLite) Exec(ctx context.Context, query string, args ...any) error {
	if s.closed {
		return ErrClosed
	}
	_, err := s.conn.ExecContext(ctx, query, args...)
	return wrap("exec", err)
}

// Begin implements Engine.
func (s *SQLite) Begin(ctx context.Context) (Tx, error) {
	if s.closed {
		return nil, ErrClosed
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("begin", err)
	}
	return tx, nil
}

// TableNames implements Engine. Tables are returned in creation order.
// Only the reserved "sqlite_" prefix is excluded; the underscore is escaped
// so names like "SQLiteData" are kept.
func (s *SQLite) TableNames(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "table names",
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY rowid`)
}

// TableExists implements Engine.
func (s *SQLite) TableExists(ctx context.Context, name string) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	var count int
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=? COLLATE NOCASE`,
		name,
	).Scan(&count)
	if err != nil {
		return false, wrap("table exists", fmt.Errorf("failed to check table existence: %w", err))
	}
	return count > 0, nil
}

// Columns implements Engine using PRAGMA table_info.
func (s *SQLite) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	if s.closed {
		return nil, ErrClosed
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT name, type FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, wrap("columns", err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, wrap("columns", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("columns", err)
	}
	return columns, nil
}

// CreateStatement implements Engine.
func (s *SQLite) CreateStatement(ctx context.Context, table string) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	var stmt sql.NullString
	err := s.conn.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type='table' AND name=?`, table,
	).Scan(&stmt)
	if err != nil {
		return "", wrap("create statement", fmt.Errorf("failed to read schema of table %s: %w", table, err))
	}
	return stmt.String, nil
}

// Close implements Engine.
func (s *SQLite) Close() error {
	s.closeOnce.Do(func() {
		s.closed = true
		connErr := s.conn.Close()
		dbErr := s.db.Close()
		s.closeErr = wrap("close", errors.Join(connErr, dbErr))
	})
	return s.closeErr
}

// queryStrings runs a single column query and collects its values
func (s *SQLite) queryStrings(ctx context.Context, op, query string, args ...any) ([]string, error) {
	if s.closed {
		return nil, ErrClosed
	}
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, wrap(op, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return values, nil
}
