// Package engine provides the relational engine used by flatql.
//
// The engine is an in-memory SQLite database (modernc.org/sqlite) held on a
// single pinned connection for the lifetime of a session. It exposes the
// minimal surface flatql needs: run a statement and inspect its column
// metadata, run a statement inside a transaction, list user tables and
// recover a table's columns either structurally (PRAGMA table_info) or from
// the stored CREATE TABLE text.
package engine
