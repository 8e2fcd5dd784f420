package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestEngine(t *testing.T) *SQLite {
	t.Helper()
	eng, err := OpenSQLite(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestSQLite_SharedInMemoryDatabase(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := openTestEngine(t)

	require.NoError(t, eng.Exec(ctx, `CREATE TABLE "people" ("name", "age" INTEGER)`))
	require.NoError(t, eng.Exec(ctx, `INSERT INTO "people" VALUES (?, ?), (?, ?)`, "alice", "30", "bob", "25"))

	res, err := eng.Query(ctx, `SELECT name, age FROM people ORDER BY age`)
	require.NoError(t, err)
	defer res.Close()

	assert.True(t, res.HasResultSet())
	assert.Equal(t, []string{"name", "age"}, res.Columns())

	var rows [][]string
	for res.Next() {
		rec, err := res.Text()
		require.NoError(t, err)
		rows = append(rows, rec)
	}
	require.NoError(t, res.Err())
	assert.Equal(t, [][]string{{"bob", "25"}, {"alice", "30"}}, rows)
}

func TestSQLite_QueryWithoutResultSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := openTestEngine(t)

	res, err := eng.Query(ctx, `CREATE TABLE t ("a")`)
	require.NoError(t, err)
	assert.False(t, res.HasResultSet())
	require.NoError(t, res.Drain())
	require.NoError(t, res.Close())

	exists, err := eng.TableExists(ctx, "T")
	require.NoError(t, err)
	assert.True(t, exists, "table names compare case-insensitively")

	res, err = eng.Query(ctx, `INSERT INTO t VALUES ('x')`)
	require.NoError(t, err)
	require.NoError(t, res.Drain())
	require.NoError(t, res.Close())

	res, err = eng.Query(ctx, `SELECT count(*) FROM t`)
	require.NoError(t, err)
	defer res.Close()
	require.True(t, res.Next())
	rec, err := res.Text()
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, rec)
}

func TestSQLite_Schema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := openTestEngine(t)

	require.NoError(t, eng.Exec(ctx, `CREATE TABLE "b" ("x", "y" REAL)`))
	require.NoError(t, eng.Exec(ctx, `CREATE TABLE "a" ("total price" INTEGER)`))

	names, err := eng.TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names, "creation order")

	cols, err := eng.Columns(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{{Name: "x", Type: ""}, {Name: "y", Type: "REAL"}}, cols)

	stmt, err := eng.CreateStatement(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "a" ("total price" INTEGER)`, stmt)

	exists, err := eng.TableExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLite_TableNamesKeepsSQLitePrefixedUserTables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := openTestEngine(t)

	require.NoError(t, eng.Exec(ctx, `CREATE TABLE "SQLiteData" ("a")`))
	require.NoError(t, eng.Exec(ctx, `CREATE TABLE "sqlites" ("a")`))
	require.NoError(t, eng.Exec(ctx, `CREATE TABLE "sqlitex" ("a")`))
	// AUTOINCREMENT creates the internal sqlite_sequence table
	require.NoError(t, eng.Exec(ctx, `CREATE TABLE "seq" ("id" INTEGER PRIMARY KEY AUTOINCREMENT)`))
	require.NoError(t, eng.Exec(ctx, `INSERT INTO "seq" DEFAULT VALUES`))

	names, err := eng.TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"SQLiteData", "sqlites", "sqlitex", "seq"}, names)
}

func TestSQLite_TransactionRollback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := openTestEngine(t)

	tx, err := eng.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `CREATE TABLE t ("a")`)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	names, err := eng.TableNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSQLite_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	eng := openTestEngine(t)

	_, err := eng.Query(ctx, `SELECT * FROM nowhere`)
	require.Error(t, err)
	var engErr *Error
	require.True(t, errors.As(err, &engErr))
	assert.Contains(t, err.Error(), "no such table")
}

func TestSQLite_Close(t *testing.T) {
	t.Parallel()

	eng, err := OpenSQLite(context.Background())
	require.NoError(t, err)

	require.NoError(t, eng.Close())
	require.NoError(t, eng.Close(), "close is idempotent")

	_, err = eng.Query(context.Background(), `SELECT 1`)
	require.ErrorIs(t, err, ErrClosed)
}

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "abc", want: "abc"},
		{name: "bytes", in: []byte("xyz"), want: "xyz"},
		{name: "int", in: int64(-42), want: "-42"},
		{name: "integral float", in: float64(31), want: "31.0"},
		{name: "float", in: 2.5, want: "2.5"},
		{name: "bool", in: true, want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}
