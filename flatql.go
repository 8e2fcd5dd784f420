package flatql

import (
	"context"

	"github.com/nao1215/flatql/domain/model"
)

// Dialect describes how managed files and result sets are encoded.
type Dialect = model.Dialect

// QuoteMode controls when the writer quotes fields.
type QuoteMode = model.QuoteMode

// Quote modes
const (
	// QuoteMinimal quotes fields only when they need it
	QuoteMinimal = model.QuoteMinimal
	// QuoteAll quotes every field
	QuoteAll = model.QuoteAll
	// QuoteNonNumeric quotes every field that is not a number
	QuoteNonNumeric = model.QuoteNonNumeric
	// QuoteNone never quotes and escapes special characters instead
	QuoteNone = model.QuoteNone
)

// NewDialect returns the default dialect: comma separated, double quote
// quoting with doubled quotes, UTF-8 and "\n" line endings.
func NewDialect() Dialect {
	return model.NewDialect()
}

// Open loads every "*.csv" file in dir with dialect and returns the session.
// Result sets go to stdout and engine errors to stderr.
//
// Example usage:
//
//	session, err := flatql.Open(ctx, "./data", flatql.NewDialect())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer session.Close()
//
//	if err := session.Execute(ctx, "UPDATE people SET age = age + 1"); err != nil {
//		log.Print(err)
//	}
func Open(ctx context.Context, dir string, dialect Dialect) (*Session, error) {
	builder, err := NewBuilder().WithPath(dir).WithDialect(dialect).Build(ctx)
	if err != nil {
		return nil, err
	}
	return builder.Open(ctx)
}
