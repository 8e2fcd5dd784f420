package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/flatql"
)

// prompt is printed before each statement when stdin is a terminal
const prompt = "=> "

// repl reads one line at a time and executes the statements on it
type repl struct {
	session     *flatql.Session
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

func newREPL(session *flatql.Session, in io.Reader, out, errOut io.Writer, interactive bool) *repl {
	return &repl{
		session:     session,
		in:          in,
		out:         out,
		errOut:      errOut,
		interactive: interactive,
	}
}

// run loops until an empty line, end of input or cancellation. Statement
// failures are printed and the loop goes on.
func (r *repl) run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	defer func() {
		if r.interactive {
			fmt.Fprintln(r.out)
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if r.interactive {
			fmt.Fprint(r.out, prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read statement: %w", err)
			}
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil
		}
		if err := r.session.Execute(ctx, line); err != nil {
			if !isStatementError(err) {
				return err
			}
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}
	}
}
