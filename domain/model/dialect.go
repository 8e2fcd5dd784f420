package model

import (
	"fmt"
	"strings"
)

// QuoteMode controls when the writer quotes a field and whether the reader
// treats the quote character specially.
type QuoteMode int

const (
	// QuoteMinimal quotes fields containing the delimiter, the quote character or a line break
	QuoteMinimal QuoteMode = iota
	// QuoteAll quotes every field
	QuoteAll
	// QuoteNonNumeric quotes every field that does not parse as a number
	QuoteNonNumeric
	// QuoteNone never quotes; the quote character has no special meaning
	QuoteNone
)

// quote mode names used by String and ParseQuoteMode
const (
	quoteMinimalStr    = "minimal"
	quoteAllStr        = "all"
	quoteNonNumericStr = "non-numeric"
	quoteNoneStr       = "none"
)

// String returns the string representation of QuoteMode
func (q QuoteMode) String() string {
	switch q {
	case QuoteMinimal:
		return quoteMinimalStr
	case QuoteAll:
		return quoteAllStr
	case QuoteNonNumeric:
		return quoteNonNumericStr
	case QuoteNone:
		return quoteNoneStr
	default:
		return quoteMinimalStr
	}
}

// ParseQuoteMode parses one of "none", "minimal", "non-numeric" or "all".
// "nonnumeric" is accepted as an alias.
func ParseQuoteMode(s string) (QuoteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case quoteMinimalStr:
		return QuoteMinimal, nil
	case quoteAllStr:
		return QuoteAll, nil
	case quoteNonNumericStr, "nonnumeric":
		return QuoteNonNumeric, nil
	case quoteNoneStr:
		return QuoteNone, nil
	default:
		return QuoteMinimal, fmt.Errorf("%w: unknown quoting mode %q", ErrInvalidDialect, s)
	}
}

// Default dialect values
const (
	// DefaultDelimiter is the default field delimiter
	DefaultDelimiter = ','
	// DefaultQuoteChar is the default quote character
	DefaultQuoteChar = '"'
	// DefaultEncoding is the default text encoding
	DefaultEncoding = "utf-8"
	// DefaultLineTerminator is the default record terminator written by Writer
	DefaultLineTerminator = "\n"
)

// Dialect is the set of formatting rules governing how a record maps to a line
// of text. The same Dialect must be used to read and write a dataset.
//
// Encoding accepts any ASCII compatible IANA name, such as "utf-8",
// "iso-8859-1", "windows-1252" or "shift_jis". Delimiters, quotes and escapes
// are matched on raw bytes. In multibyte encodings like shift_jis the second
// byte of a character can equal '\' or '|'. When that byte is the escape
// character or delimiter it is escaped or quoted like any other, so the file
// reads back correctly with flatql but may not with tools that decode first.
//
// Example:
//
//	dialect := NewDialect().
//		WithDelimiter(';').
//		WithQuoting(QuoteAll).
//		WithEncoding("iso-8859-1")
type Dialect struct {
	// Delimiter separates fields
	Delimiter byte
	// QuoteChar wraps fields that need quoting; zero only with QuoteNone
	QuoteChar byte
	// Quoting selects the quoting mode
	Quoting QuoteMode
	// DoubleQuote writes an embedded quote character as two quote characters
	DoubleQuote bool
	// EscapeChar makes the following byte literal; zero means unset
	EscapeChar byte
	// Encoding is the IANA name of the text encoding. With multibyte
	// encodings such as shift_jis, a second byte equal to the delimiter or
	// escape character is written escaped, and only flatql reads it back.
	Encoding string
	// LineTerminator ends every written record ("\n" or "\r\n")
	LineTerminator string
}

// NewDialect creates the default dialect: comma delimited, double quotes,
// minimal quoting, doubled quotes, no escape character, UTF-8, "\n".
func NewDialect() Dialect {
	return Dialect{
		Delimiter:      DefaultDelimiter,
		QuoteChar:      DefaultQuoteChar,
		Quoting:        QuoteMinimal,
		DoubleQuote:    true,
		EscapeChar:     0,
		Encoding:       DefaultEncoding,
		LineTerminator: DefaultLineTerminator,
	}
}

// WithDelimiter sets the field delimiter.
func (d Dialect) WithDelimiter(c byte) Dialect {
	d.Delimiter = c
	return d
}

// WithQuoteChar sets the quote character.
func (d Dialect) WithQuoteChar(c byte) Dialect {
	d.QuoteChar = c
	return d
}

// WithQuoting sets the quoting mode.
func (d Dialect) WithQuoting(q QuoteMode) Dialect {
	d.Quoting = q
	return d
}

// WithDoubleQuote toggles doubling of embedded quote characters.
func (d Dialect) WithDoubleQuote(on bool) Dialect {
	d.DoubleQuote = on
	return d
}

// WithEscapeChar sets the escape character. Zero unsets it.
func (d Dialect) WithEscapeChar(c byte) Dialect {
	d.EscapeChar = c
	return d
}

// WithEncoding sets the text encoding by IANA name.
func (d Dialect) WithEncoding(name string) Dialect {
	d.Encoding = name
	return d
}

// WithLineTerminator sets the record terminator used when writing.
func (d Dialect) WithLineTerminator(term string) Dialect {
	d.LineTerminator = term
	return d
}

// Validate checks that the dialect is internally consistent and that its
// encoding can be used by the byte oriented codec.
func (d Dialect) Validate() error {
	if err := validateDialectChar("delimiter", d.Delimiter, false); err != nil {
		return err
	}
	if err := validateDialectChar("quote character", d.QuoteChar, d.Quoting == QuoteNone); err != nil {
		return err
	}
	if err := validateDialectChar("escape character", d.EscapeChar, true); err != nil {
		return err
	}

	if d.QuoteChar != 0 && d.QuoteChar == d.Delimiter {
		return fmt.Errorf("%w: quote character and delimiter are both %q", ErrInvalidDialect, d.Delimiter)
	}
	if d.EscapeChar != 0 && (d.EscapeChar == d.Delimiter || d.EscapeChar == d.QuoteChar) {
		return fmt.Errorf("%w: escape character %q collides with delimiter or quote character", ErrInvalidDialect, d.EscapeChar)
	}
	if d.Quoting < QuoteMinimal || d.Quoting > QuoteNone {
		return fmt.Errorf("%w: unknown quoting mode %d", ErrInvalidDialect, d.Quoting)
	}
	if d.Quoting != QuoteNone && !d.DoubleQuote && d.EscapeChar == 0 {
		return fmt.Errorf("%w: doublequote is off and no escape character is set", ErrInvalidDialect)
	}

	switch d.LineTerminator {
	case "\n", "\r\n":
	default:
		return fmt.Errorf("%w: line terminator must be \\n or \\r\\n, got %q", ErrInvalidDialect, d.LineTerminator)
	}

	if _, err := LookupEncoding(d.Encoding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDialect, err)
	}
	return nil
}

// validateDialectChar checks a single dialect character
func validateDialectChar(name string, c byte, optional bool) error {
	if c == 0 {
		if optional {
			return nil
		}
		return fmt.Errorf("%w: %s must be set", ErrInvalidDialect, name)
	}
	if c >= 0x80 {
		return fmt.Errorf("%w: %s must be a single ASCII character", ErrInvalidDialect, name)
	}
	if c == '\r' || c == '\n' {
		return fmt.Errorf("%w: %s cannot be a line break", ErrInvalidDialect, name)
	}
	return nil
}

// ParseDialectChar converts a command line or config value to a dialect
// character. The empty string yields zero, `\t` and "tab" yield a tab.
func ParseDialectChar(s string) (byte, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab", "TAB":
		return '\t', nil
	}
	if len(s) != 1 || s[0] >= 0x80 {
		return 0, fmt.Errorf("%w: %q is not a single ASCII character", ErrInvalidDialect, s)
	}
	return s[0], nil
}
