package model

import (
	"bufio"
	"errors"
	"io"
)

// parserState is a state of the record parser
type parserState int

const (
	stateStartField parserState = iota
	stateInField
	stateEscapedChar
	stateInQuotedField
	stateEscapeInQuotedField
	stateQuoteInQuotedField
)

// Reader splits a byte stream into records according to a Dialect and decodes
// every field with the dialect's encoding.
//
// Blank lines are skipped. Under QuoteNone the quote character is ordinary
// data, so a field can never contain the delimiter unless it is escaped.
type Reader struct {
	r        *bufio.Reader
	dialect  Dialect
	encoding *Encoding

	// line is the number of line breaks consumed so far plus one
	line int
	// recordLine is the line on which the last record started
	recordLine int

	fields [][]byte
	field  []byte
}

// NewReader returns a Reader that reads from r using dialect d.
func NewReader(r io.Reader, d Dialect) (*Reader, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	enc, err := LookupEncoding(d.Encoding)
	if err != nil {
		return nil, err
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{
		r:        br,
		dialect:  d,
		encoding: enc,
		line:     1,
	}, nil
}

// Line returns the 1-based line number on which the most recently read record
// started.
func (r *Reader) Line() int {
	return r.recordLine
}

// Read reads one record. It returns io.EOF when no records remain.
func (r *Reader) Read() ([]string, error) {
	raw, err := r.readRecord()
	if err != nil {
		return nil, err
	}

	record := make([]string, len(raw))
	for i, b := range raw {
		s, err := r.encoding.Decode(b)
		if err != nil {
			return nil, &CodecError{Line: r.recordLine, Field: i + 1, Err: err}
		}
		record[i] = s
	}
	return record, nil
}

// ReadAll reads all remaining records.
func (r *Reader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// readRecord returns the raw fields of the next non-blank record
func (r *Reader) readRecord() ([][]byte, error) {
	// skip blank lines
	for {
		c, err := r.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		if c == '\n' || c == '\r' {
			r.consumeLineBreak(c)
			continue
		}
		if err := r.r.UnreadByte(); err != nil {
			return nil, err
		}
		break
	}

	r.recordLine = r.line
	r.fields = nil
	r.field = nil

	d := r.dialect
	quoting := d.Quoting != QuoteNone && d.QuoteChar != 0
	state := stateStartField

	for {
		c, err := r.r.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}
			switch state {
			case stateInQuotedField, stateEscapeInQuotedField:
				return nil, &CodecError{Line: r.recordLine, Field: len(r.fields) + 1, Err: errUnterminatedQuote}
			case stateEscapedChar:
				return nil, &CodecError{Line: r.line, Field: len(r.fields) + 1, Err: errTrailingEscape}
			}
			r.saveField()
			return r.fields, nil
		}

		switch state {
		case stateStartField, stateInField:
			switch {
			case state == stateStartField && quoting && c == d.QuoteChar:
				state = stateInQuotedField
			case d.EscapeChar != 0 && c == d.EscapeChar:
				state = stateEscapedChar
			case c == d.Delimiter:
				r.saveField()
				state = stateStartField
			case c == '\n' || c == '\r':
				r.consumeLineBreak(c)
				r.saveField()
				return r.fields, nil
			default:
				r.field = append(r.field, c)
				state = stateInField
			}

		case stateEscapedChar:
			if c == '\n' {
				r.line++
			}
			r.field = append(r.field, c)
			state = stateInField

		case stateInQuotedField:
			switch {
			case d.EscapeChar != 0 && c == d.EscapeChar:
				state = stateEscapeInQuotedField
			case c == d.QuoteChar:
				if d.DoubleQuote {
					state = stateQuoteInQuotedField
				} else {
					state = stateInField
				}
			default:
				if c == '\n' {
					r.line++
				}
				r.field = append(r.field, c)
			}

		case stateEscapeInQuotedField:
			if c == '\n' {
				r.line++
			}
			r.field = append(r.field, c)
			state = stateInQuotedField

		case stateQuoteInQuotedField:
			switch {
			case c == d.QuoteChar:
				r.field = append(r.field, c)
				state = stateInQuotedField
			case c == d.Delimiter:
				r.saveField()
				state = stateStartField
			case c == '\n' || c == '\r':
				r.consumeLineBreak(c)
				r.saveField()
				return r.fields, nil
			default:
				// lenient: text after a closing quote is kept as data
				r.field = append(r.field, c)
				state = stateInField
			}
		}
	}
}

// saveField appends the current field to the record
func (r *Reader) saveField() {
	field := r.field
	if field == nil {
		field = []byte{}
	}
	r.fields = append(r.fields, field)
	r.field = nil
}

// consumeLineBreak advances the line counter and swallows the LF of a CRLF pair
func (r *Reader) consumeLineBreak(c byte) {
	r.line++
	if c != '\r' {
		return
	}
	next, err := r.r.ReadByte()
	if err != nil {
		return
	}
	if next != '\n' {
		_ = r.r.UnreadByte()
	}
}
