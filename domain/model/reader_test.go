package model

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string, d Dialect) [][]string {
	t.Helper()
	r, err := NewReader(strings.NewReader(input), d)
	require.NoError(t, err)
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestReader_Read(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		dialect Dialect
		want    [][]string
	}{
		{
			name:    "simple",
			input:   "name,age\nalice,30\n",
			dialect: NewDialect(),
			want:    [][]string{{"name", "age"}, {"alice", "30"}},
		},
		{
			name:    "no trailing newline",
			input:   "a,b\n1,2",
			dialect: NewDialect(),
			want:    [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:    "crlf",
			input:   "a,b\r\n1,2\r\n",
			dialect: NewDialect(),
			want:    [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:    "quoted delimiter and newline",
			input:   "a,b\n\"x,y\",\"line1\nline2\"\n",
			dialect: NewDialect(),
			want:    [][]string{{"a", "b"}, {"x,y", "line1\nline2"}},
		},
		{
			name:    "doubled quote",
			input:   "a\n\"say \"\"hi\"\"\"\n",
			dialect: NewDialect(),
			want:    [][]string{{"a"}, {`say "hi"`}},
		},
		{
			name:    "empty fields",
			input:   "a,b,c\n,,\n",
			dialect: NewDialect(),
			want:    [][]string{{"a", "b", "c"}, {"", "", ""}},
		},
		{
			name:    "quoted empty single field",
			input:   "a\n\"\"\n",
			dialect: NewDialect(),
			want:    [][]string{{"a"}, {""}},
		},
		{
			name:    "blank lines are skipped",
			input:   "a\n\n1\n\r\n2\n",
			dialect: NewDialect(),
			want:    [][]string{{"a"}, {"1"}, {"2"}},
		},
		{
			name:    "tab delimited",
			input:   "a\tb\nx y\tz\n",
			dialect: NewDialect().WithDelimiter('\t'),
			want:    [][]string{{"a", "b"}, {"x y", "z"}},
		},
		{
			name:    "quote inside unquoted field is data",
			input:   "a\nsay \"hi\"\n",
			dialect: NewDialect(),
			want:    [][]string{{"a"}, {`say "hi"`}},
		},
		{
			name:    "escape char",
			input:   "a,b\nx\\,y,z\n",
			dialect: NewDialect().WithEscapeChar('\\'),
			want:    [][]string{{"a", "b"}, {"x,y", "z"}},
		},
		{
			name:    "escaped quote without doublequote",
			input:   "a\n\"say \\\"hi\\\"\"\n",
			dialect: NewDialect().WithDoubleQuote(false).WithEscapeChar('\\'),
			want:    [][]string{{"a"}, {`say "hi"`}},
		},
		{
			name:    "quoting none treats quotes as data",
			input:   "a,b\n\"x,y\"\n",
			dialect: NewDialect().WithQuoting(QuoteNone),
			want:    [][]string{{"a", "b"}, {`"x`, `y"`}},
		},
		{
			name:    "quoting none with escaped delimiter",
			input:   "a\nx\\,y\n",
			dialect: NewDialect().WithQuoting(QuoteNone).WithEscapeChar('\\'),
			want:    [][]string{{"a"}, {"x,y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, readAll(t, tt.input, tt.dialect))
		})
	}
}

func TestReader_Line(t *testing.T) {
	t.Parallel()

	r, err := NewReader(strings.NewReader("a,b\n\"multi\nline\",x\n\n3,4\n"), NewDialect())
	require.NoError(t, err)

	_, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Line())

	_, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Line())

	_, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 5, r.Line())

	_, err = r.Read()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestReader_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unterminated quote", func(t *testing.T) {
		t.Parallel()

		r, err := NewReader(strings.NewReader("a\n\"open\n"), NewDialect())
		require.NoError(t, err)
		_, err = r.Read()
		require.NoError(t, err)

		_, err = r.Read()
		var codecErr *CodecError
		require.ErrorAs(t, err, &codecErr)
		assert.Equal(t, 2, codecErr.Line)
		assert.ErrorIs(t, err, errUnterminatedQuote)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		t.Parallel()

		r, err := NewReader(strings.NewReader("a,b\nok,\xff\xfe\n"), NewDialect())
		require.NoError(t, err)
		_, err = r.Read()
		require.NoError(t, err)

		_, err = r.Read()
		var codecErr *CodecError
		require.ErrorAs(t, err, &codecErr)
		assert.Equal(t, 2, codecErr.Line)
		assert.Equal(t, 2, codecErr.Field)
	})

	t.Run("invalid dialect", func(t *testing.T) {
		t.Parallel()

		_, err := NewReader(strings.NewReader(""), NewDialect().WithDelimiter(0))
		require.ErrorIs(t, err, ErrInvalidDialect)
	})
}

func TestReader_Latin1(t *testing.T) {
	t.Parallel()

	input := "name\nJ\xfcrgen\n"
	got := readAll(t, input, NewDialect().WithEncoding("iso-8859-1"))
	assert.Equal(t, [][]string{{"name"}, {"Jürgen"}}, got)
}
