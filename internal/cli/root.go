// Package cli implements the flatql command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nao1215/flatql"
	"github.com/nao1215/flatql/domain/model"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(os.Stdin, os.Stdout, os.Stderr, stdinIsTerminal())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// stdinIsTerminal reports whether stdin is an interactive terminal
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // file descriptors fit in int
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer, interactive bool) *cobra.Command {
	opts := defaultOptions()

	rootCmd := &cobra.Command{
		Use:   "flatql",
		Short: "Execute SQL queries on a directory of delimited text files",
		Long: `flatql loads every file with the dataset suffix in a directory as a table,
runs SQL statements against them and, when a statement changed the data,
writes every table back to the directory in the same format.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			path := configPath(opts.configFile)
			if path == "" {
				return nil
			}
			cfg, err := LoadConfig(path)
			if err != nil {
				return err
			}
			opts.applyConfig(cmd.Flags(), cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, stdin, stdout, stderr, interactive)
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	opts.bindFlags(rootCmd.Flags())
	rootCmd.MarkFlagsMutuallyExclusive("query", "file")
	_ = rootCmd.MarkFlagFilename("file")
	_ = rootCmd.MarkFlagFilename("config", "yaml", "yml")
	_ = rootCmd.MarkFlagDirname("path")

	return rootCmd
}

// newLogger returns the CLI logger: warnings on stderr, debug with --verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run opens the dataset, executes the statements and closes the session.
// Engine errors are reported and do not fail the command; load, flush and
// configuration errors do.
func run(ctx context.Context, opts *options, stdin io.Reader, stdout, stderr io.Writer, interactive bool) (err error) {
	dialect, err := opts.dialect()
	if err != nil {
		return err
	}

	builder, err := flatql.NewBuilder().
		WithPath(opts.path).
		WithDialect(dialect).
		WithSuffix(opts.suffix).
		WithDuplicatePolicy(opts.duplicatePolicy()).
		WithLogger(newLogger(stderr, opts.verbose)).
		WithOutput(stdout).
		WithErrorOutput(nil).
		Build(ctx)
	if err != nil {
		return err
	}

	session, err := builder.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.CloseContext(context.WithoutCancel(ctx)); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	switch {
	case opts.query != "":
		return reportEngineError(stderr, session.ExecuteScript(ctx, opts.query))
	case opts.file != "":
		script, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("read statements: %w", err)
		}
		return reportEngineError(stderr, session.ExecuteScript(ctx, string(script)))
	default:
		return newREPL(session, stdin, stdout, stderr, interactive).run(ctx)
	}
}

// reportEngineError prints statement failures and swallows them; other
// errors are returned
func reportEngineError(stderr io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if isStatementError(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil
	}
	return err
}

// isStatementError reports whether err concerns one statement rather than the session
func isStatementError(err error) bool {
	var engineErr *flatql.EngineError
	if errors.As(err, &engineErr) {
		return true
	}
	var codecErr *model.CodecError
	return errors.As(err, &codecErr)
}
