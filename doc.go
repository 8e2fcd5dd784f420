// Package flatql turns a directory of delimited text files into a SQL
// dataset.
//
// Every file in the directory whose name ends in the managed suffix ("csv" by
// default) is loaded into an in-memory SQLite database as a table named after
// the file. Statements run against the database; when any statement changes
// it, closing the session writes every table back to the directory in the
// same dialect it was read with.
//
// # Basic Usage
//
//	session, err := flatql.Open(ctx, "./data", flatql.NewDialect())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	// SELECT output is written to stdout in the session dialect
//	_ = session.Execute(ctx, "SELECT name FROM people WHERE age > 30")
//
//	// Any statement without a result set marks the session changed
//	_ = session.Execute(ctx, "UPDATE people SET age = age + 1")
//
// # Advanced Usage
//
// The Builder configures the dialect, the managed suffix, what happens to
// duplicate table names and where output goes:
//
//	builder, err := flatql.NewBuilder().
//	    WithPath("./logs").
//	    WithSuffix("tsv.gz").
//	    WithDialect(flatql.NewDialect().WithDelimiter('\t')).
//	    WithDuplicatePolicy(flatql.DuplicateMerge).
//	    Build(ctx)
//
// # Headers
//
// The first row of a file is its header. Each field names a column, trimmed of
// surrounding spaces. A field may end in an uppercase type keyword
// (TEXT, INTEGER, INT, REAL, NUMERIC or BLOB), as in "age INTEGER"; the
// keyword becomes the column's declared type and is written back unchanged.
// Columns without a type store text.
//
// # Compression
//
// Suffixes ending in .gz, .xz and .zst are read and written compressed.
// Suffixes ending in .bz2 can be read but not written.
package flatql
