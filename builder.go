package flatql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/flatql/domain/model"
	"github.com/nao1215/flatql/engine"
)

// EngineOpener creates the engine a session loads into.
type EngineOpener func(ctx context.Context) (engine.Engine, error)

// openSQLite is the default EngineOpener
func openSQLite(ctx context.Context) (engine.Engine, error) {
	return engine.OpenSQLite(ctx)
}

// Builder configures and opens a Session.
//
// The typical usage pattern is:
//
//	builder, err := flatql.NewBuilder().
//		WithPath("./data").
//		WithDialect(flatql.NewDialect().WithDelimiter('\t')).
//		WithSuffix("tsv").
//		Build(ctx)
//	if err != nil {
//		return err
//	}
//	session, err := builder.Open(ctx)
//	if err != nil {
//		return err
//	}
//	defer session.Close()
type Builder struct {
	path         string
	dialect      model.Dialect
	suffixText   string
	suffix       model.Suffix
	policy       DuplicatePolicy
	schemaSource SchemaSource
	logger       *slog.Logger
	out          io.Writer
	errOut       io.Writer
	openEngine   EngineOpener
	built        bool
}

// NewBuilder creates a builder with the default dialect, the "csv" suffix,
// output to stdout and engine errors to stderr.
func NewBuilder() *Builder {
	return &Builder{
		path:         "./",
		dialect:      model.NewDialect(),
		suffixText:   model.DefaultSuffix,
		policy:       DuplicateReject,
		schemaSource: SchemaFromIntrospection,
		logger:       slog.New(slog.DiscardHandler),
		out:          os.Stdout,
		errOut:       os.Stderr,
		openEngine:   openSQLite,
	}
}

// WithPath sets the dataset directory.
func (b *Builder) WithPath(path string) *Builder {
	b.path = path
	b.built = false
	return b
}

// WithDialect sets the dialect used for managed files and result output.
func (b *Builder) WithDialect(dialect model.Dialect) *Builder {
	b.dialect = dialect
	b.built = false
	return b
}

// WithSuffix sets the managed file suffix, such as "tsv" or "csv.gz".
func (b *Builder) WithSuffix(suffix string) *Builder {
	b.suffixText = suffix
	b.built = false
	return b
}

// WithDuplicatePolicy sets how files that map to the same table are handled.
func (b *Builder) WithDuplicatePolicy(policy DuplicatePolicy) *Builder {
	b.policy = policy
	return b
}

// WithSchemaSource sets how Flush learns table columns.
func (b *Builder) WithSchemaSource(source SchemaSource) *Builder {
	b.schemaSource = source
	return b
}

// WithLogger sets the logger. A nil logger discards.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b.logger = logger
	return b
}

// WithOutput sets where result sets are written.
func (b *Builder) WithOutput(w io.Writer) *Builder {
	b.out = w
	return b
}

// WithErrorOutput sets where engine errors are reported. A nil writer
// disables reporting; errors are still returned.
func (b *Builder) WithErrorOutput(w io.Writer) *Builder {
	b.errOut = w
	return b
}

// WithEngineOpener replaces the in-memory SQLite engine.
func (b *Builder) WithEngineOpener(opener EngineOpener) *Builder {
	if opener != nil {
		b.openEngine = opener
	}
	return b
}

// Build validates the configuration. Nothing is read from the directory yet.
func (b *Builder) Build(_ context.Context) (*Builder, error) {
	v := newValidator()
	if err := v.validateDirectory(b.path); err != nil {
		return nil, err
	}
	if err := v.validateDialect(b.dialect); err != nil {
		return nil, err
	}
	suffix, err := model.NewSuffix(b.suffixText)
	if err != nil {
		return nil, err
	}
	if b.out == nil {
		return nil, errors.New("output writer cannot be nil")
	}
	b.suffix = suffix
	b.built = true
	return b, nil
}

// Open creates the engine and loads every managed file in the directory as a
// table. If loading fails the engine is released and nothing is written.
func (b *Builder) Open(ctx context.Context) (*Session, error) {
	if !b.built {
		return nil, errors.New("builder is not validated, did you call Build()?")
	}

	files, err := newFileProcessor(b.suffix).collectTableFiles(b.path)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("managed files found", "dir", b.path, "suffix", b.suffix.String(), "files", describeFiles(files))

	eng, err := b.openEngine(ctx)
	if err != nil {
		return nil, &EngineError{Statement: "open", Err: err}
	}

	l := newLoader(eng, b.dialect, b.policy, b.logger)
	if err := l.loadAll(ctx, files, b.suffix.Compression()); err != nil {
		if closeErr := eng.Close(); closeErr != nil {
			return nil, errors.Join(err, fmt.Errorf("failed to close engine: %w", closeErr))
		}
		return nil, err
	}
	b.logger.Info("dataset loaded", "dir", b.path, "tables", len(l.loaded))

	return &Session{
		dir:          b.path,
		dialect:      b.dialect,
		suffix:       b.suffix,
		schemaSource: b.schemaSource,
		engine:       eng,
		logger:       b.logger,
		out:          b.out,
		errOut:       b.errOut,
	}, nil
}
