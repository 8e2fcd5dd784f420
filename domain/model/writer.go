package model

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strconv"
)

// Writer serializes records according to a Dialect. Every field is encoded
// with the dialect's encoding before it is quoted or escaped.
type Writer struct {
	w        *bufio.Writer
	dialect  Dialect
	encoding *Encoding
	buf      bytes.Buffer
}

// NewWriter returns a Writer that writes to w using dialect d.
func NewWriter(w io.Writer, d Dialect) (*Writer, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	enc, err := LookupEncoding(d.Encoding)
	if err != nil {
		return nil, err
	}
	return &Writer{
		w:        bufio.NewWriter(w),
		dialect:  d,
		encoding: enc,
	}, nil
}

// Write writes a single record followed by the line terminator. A record is
// either written completely or not at all.
func (w *Writer) Write(record []string) error {
	w.buf.Reset()

	if len(record) == 1 && record[0] == "" {
		if w.dialect.Quoting == QuoteNone {
			return &CodecError{Field: 1, Err: errEmptySingleField}
		}
		w.buf.WriteByte(w.dialect.QuoteChar)
		w.buf.WriteByte(w.dialect.QuoteChar)
	} else {
		for i, field := range record {
			if i > 0 {
				w.buf.WriteByte(w.dialect.Delimiter)
			}
			raw, err := w.encoding.Encode(field)
			if err != nil {
				return &CodecError{Field: i + 1, Err: err}
			}
			if err := w.appendField(raw, w.wantQuotes(field)); err != nil {
				return &CodecError{Field: i + 1, Err: err}
			}
		}
	}

	w.buf.WriteString(w.dialect.LineTerminator)
	_, err := w.w.Write(w.buf.Bytes())
	return err
}

// WriteAll writes records and flushes.
func (w *Writer) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// wantQuotes reports whether the quoting mode forces quotes regardless of content
func (w *Writer) wantQuotes(field string) bool {
	switch w.dialect.Quoting {
	case QuoteAll:
		return true
	case QuoteNonNumeric:
		return !isNumeric(field)
	default:
		return false
	}
}

// appendField escapes raw into the record buffer, adding quotes when the mode
// requires them or when minimal quoting finds a special byte.
func (w *Writer) appendField(raw []byte, quoted bool) error {
	d := w.dialect
	var body bytes.Buffer

	for _, c := range raw {
		isQuote := d.Quoting != QuoteNone && c == d.QuoteChar
		isEscape := d.EscapeChar != 0 && c == d.EscapeChar
		special := c == d.Delimiter || c == '\r' || c == '\n' || isQuote || isEscape

		if special {
			wantEscape := false
			if d.Quoting == QuoteNone {
				wantEscape = true
			} else {
				switch {
				case isQuote && d.DoubleQuote:
					body.WriteByte(d.QuoteChar)
				case isQuote, isEscape:
					wantEscape = true
				}
				if !wantEscape {
					quoted = true
				}
			}
			if wantEscape {
				if d.EscapeChar == 0 {
					return errNeedEscape
				}
				body.WriteByte(d.EscapeChar)
			}
		}
		body.WriteByte(c)
	}

	if quoted {
		w.buf.WriteByte(d.QuoteChar)
	}
	w.buf.Write(body.Bytes())
	if quoted {
		w.buf.WriteByte(d.QuoteChar)
	}
	return nil
}

// isNumeric reports whether s is a finite decimal number
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
