package flatql

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/nao1215/flatql/engine"
	"github.com/stretchr/testify/require"
)

// writeDataset creates files in a fresh temporary directory
func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

// readFile returns a file's content as a string
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test fixture path
	require.NoError(t, err)
	return string(data)
}

// listDir returns the sorted file names in dir
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// testSession holds a session and its captured output
type testSession struct {
	*Session
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// openTestSession opens dir with the builder adjusted by configure
func openTestSession(t *testing.T, dir string, configure func(*Builder) *Builder) *testSession {
	t.Helper()
	ts, err := tryOpenTestSession(t, dir, configure)
	require.NoError(t, err)
	return ts
}

// tryOpenTestSession is openTestSession returning the open error
func tryOpenTestSession(t *testing.T, dir string, configure func(*Builder) *Builder) (*testSession, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	b := NewBuilder().WithPath(dir).WithOutput(out).WithErrorOutput(errOut)
	if configure != nil {
		b = configure(b)
	}
	built, err := b.Build(context.Background())
	if err != nil {
		return nil, err
	}
	session, err := built.Open(context.Background())
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { _ = session.Close() })
	return &testSession{Session: session, out: out, errOut: errOut}, nil
}

// engineType keeps opener signatures short in tests
type engineType = engine.Engine

// countingEngine counts Close calls on a real engine
type countingEngine struct {
	engine.Engine
	closes int
}

func (e *countingEngine) Close() error {
	e.closes++
	return e.Engine.Close()
}
