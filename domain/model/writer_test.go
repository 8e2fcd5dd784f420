package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAll(t *testing.T, records [][]string, d Dialect) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, d)
	require.NoError(t, err)
	err = w.WriteAll(records)
	return buf.String(), err
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records [][]string
		dialect Dialect
		want    string
	}{
		{
			name:    "minimal",
			records: [][]string{{"a", "b"}, {"1", "x y"}},
			dialect: NewDialect(),
			want:    "a,b\n1,x y\n",
		},
		{
			name:    "minimal quotes special fields",
			records: [][]string{{"x,y", `say "hi"`, "two\nlines"}},
			dialect: NewDialect(),
			want:    "\"x,y\",\"say \"\"hi\"\"\",\"two\nlines\"\n",
		},
		{
			name:    "all",
			records: [][]string{{"a", "1"}},
			dialect: NewDialect().WithQuoting(QuoteAll),
			want:    "\"a\",\"1\"\n",
		},
		{
			name:    "non-numeric",
			records: [][]string{{"a", "1", "2.5", "", "-3e2"}},
			dialect: NewDialect().WithQuoting(QuoteNonNumeric),
			want:    "\"a\",1,2.5,\"\",-3e2\n",
		},
		{
			name:    "single empty field is quoted",
			records: [][]string{{""}},
			dialect: NewDialect(),
			want:    "\"\"\n",
		},
		{
			name:    "escape instead of doubling",
			records: [][]string{{`say "hi"`}},
			dialect: NewDialect().WithDoubleQuote(false).WithEscapeChar('\\'),
			want:    "say \\\"hi\\\"\n",
		},
		{
			name:    "quoting none escapes delimiter",
			records: [][]string{{"x,y", "z"}},
			dialect: NewDialect().WithQuoting(QuoteNone).WithEscapeChar('\\'),
			want:    "x\\,y,z\n",
		},
		{
			name:    "quoting none leaves quote char alone",
			records: [][]string{{`"q"`}},
			dialect: NewDialect().WithQuoting(QuoteNone),
			want:    "\"q\"\n",
		},
		{
			name:    "crlf",
			records: [][]string{{"a"}, {"b"}},
			dialect: NewDialect().WithLineTerminator("\r\n"),
			want:    "a\r\nb\r\n",
		},
		{
			name:    "semicolon",
			records: [][]string{{"a;b", "c"}},
			dialect: NewDialect().WithDelimiter(';'),
			want:    "\"a;b\";c\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := writeAll(t, tt.records, tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_Errors(t *testing.T) {
	t.Parallel()

	t.Run("quoting none without escape rejects delimiter", func(t *testing.T) {
		t.Parallel()

		got, err := writeAll(t, [][]string{{"ok"}, {"x,y"}}, NewDialect().WithQuoting(QuoteNone))
		var codecErr *CodecError
		require.ErrorAs(t, err, &codecErr)
		assert.Equal(t, 1, codecErr.Field)
		assert.ErrorIs(t, err, errNeedEscape)
		// the failing record is not written
		assert.NotContains(t, got, "x")
	})

	t.Run("quoting none rejects single empty field", func(t *testing.T) {
		t.Parallel()

		_, err := writeAll(t, [][]string{{""}}, NewDialect().WithQuoting(QuoteNone))
		require.ErrorIs(t, err, errEmptySingleField)
	})

	t.Run("unencodable text", func(t *testing.T) {
		t.Parallel()

		_, err := writeAll(t, [][]string{{"a", "€"}}, NewDialect().WithEncoding("iso-8859-1"))
		var codecErr *CodecError
		require.ErrorAs(t, err, &codecErr)
		assert.Equal(t, 2, codecErr.Field)
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	records := [][]string{
		{"id", "text", "note"},
		{"1", "plain", ""},
		{"2", "with,comma", `and "quotes"`},
		{"3", "multi\nline", "crlf\r\ninside"},
		{"4", "ünïcödé", "\\backslash"},
	}

	dialects := map[string]Dialect{
		"default":     NewDialect(),
		"all":         NewDialect().WithQuoting(QuoteAll),
		"non-numeric": NewDialect().WithQuoting(QuoteNonNumeric),
		"escaped":     NewDialect().WithDoubleQuote(false).WithEscapeChar('\\'),
		"none":        NewDialect().WithQuoting(QuoteNone).WithEscapeChar('\\'),
		"tab crlf":    NewDialect().WithDelimiter('\t').WithLineTerminator("\r\n"),
		"latin1":      NewDialect().WithEncoding("iso-8859-1"),
	}

	for name, d := range dialects {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			encoded, err := writeAll(t, records, d)
			require.NoError(t, err)

			decoded := readAll(t, encoded, d)
			assert.Equal(t, records, decoded)

			again, err := writeAll(t, decoded, d)
			require.NoError(t, err)
			assert.Equal(t, encoded, again)
		})
	}
}

func TestCodec_ShiftJISSecondBytes(t *testing.T) {
	t.Parallel()

	// "表" is 0x95 0x5C and "ポ" is 0x83 0x7C in shift_jis
	tests := []struct {
		name    string
		dialect Dialect
		record  []string
		want    string
	}{
		{
			name:    "second byte is the escape character",
			dialect: NewDialect().WithEncoding("shift_jis").WithQuoting(QuoteNone).WithEscapeChar('\\'),
			record:  []string{"表", "x"},
			want:    "\x95\\\\,x\n",
		},
		{
			name:    "second byte is the escape character with doublequote off",
			dialect: NewDialect().WithEncoding("shift_jis").WithDoubleQuote(false).WithEscapeChar('\\'),
			record:  []string{"表", "x"},
			want:    "\x95\\\\,x\n",
		},
		{
			name:    "second byte is the delimiter",
			dialect: NewDialect().WithEncoding("shift_jis").WithDelimiter('|'),
			record:  []string{"ポ", "x"},
			want:    "\"\x83|\"|x\n",
		},
		{
			name:    "second byte is an unused special character",
			dialect: NewDialect().WithEncoding("shift_jis"),
			record:  []string{"表", "ポ"},
			want:    "\x95\\,\x83|\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encoded, err := writeAll(t, [][]string{tt.record}, tt.dialect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, encoded)
			assert.Equal(t, [][]string{tt.record}, readAll(t, encoded, tt.dialect))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"0", "-1", "3.14", "1e9", ".5"} {
		assert.True(t, isNumeric(s), s)
	}
	for _, s := range []string{"", "abc", "1,5", "NaN", "Inf", strings.Repeat("9", 400) + "x"} {
		assert.False(t, isNumeric(s), s)
	}
}
