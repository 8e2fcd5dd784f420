package model

import (
	"fmt"
	"strings"
	"unicode"
)

// typeAnnotations are the declared types recognized at the end of a header
// field. They must be written in upper case, so "free text" stays a column
// named "free text" while "price REAL" declares a REAL column named "price".
var typeAnnotations = map[string]bool{
	"TEXT":    true,
	"INTEGER": true,
	"INT":     true,
	"REAL":    true,
	"NUMERIC": true,
	"BLOB":    true,
}

// Column is a table column recovered from a header field or from the engine.
type Column struct {
	// Name is the bare column name
	Name string
	// Type is the optional declared type kept outside the quoted identifier
	Type string
}

// ParseColumn converts a header field into a Column. Surrounding whitespace
// is ignored and a trailing upper case type keyword becomes the column type.
func ParseColumn(field string) (Column, error) {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return Column{}, ErrEmptyColumnName
	}

	cut := strings.LastIndexFunc(trimmed, unicode.IsSpace)
	if cut > 0 {
		name := strings.TrimSpace(trimmed[:cut])
		qualifier := trimmed[cut+1:]
		if name != "" && typeAnnotations[qualifier] {
			return Column{Name: name, Type: qualifier}, nil
		}
	}
	return Column{Name: trimmed}, nil
}

// ParseHeader converts a header record into columns, rejecting empty and
// duplicate names. Duplicate detection is case-sensitive.
func ParseHeader(header []string) ([]Column, error) {
	columns := make([]Column, 0, len(header))
	seen := make(map[string]bool, len(header))
	for i, field := range header {
		col, err := ParseColumn(field)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumnName, col.Name)
		}
		seen[col.Name] = true
		columns = append(columns, col)
	}
	return columns, nil
}

// NewColumnFromSchema builds a Column from an engine provided name and declared
// type. Declared types that a header field could not express are dropped.
func NewColumnFromSchema(name, declType string) Column {
	declType = strings.TrimSpace(declType)
	if !typeAnnotations[declType] {
		declType = ""
	}
	return Column{Name: name, Type: declType}
}

// untypedDeclaration is the declared type of columns without an annotation.
// It gives the column TEXT affinity, so values are stored verbatim and compare
// with literals as text, and it is not an annotation, so it reads back untyped.
const untypedDeclaration = "VARCHAR"

// Definition renders the column for a CREATE TABLE column list.
func (c Column) Definition() string {
	if c.Type == "" {
		return QuoteIdentifier(c.Name) + " " + untypedDeclaration
	}
	return QuoteIdentifier(c.Name) + " " + c.Type
}

// HeaderField renders the column back as header text.
func (c Column) HeaderField() string {
	if c.Type == "" {
		return c.Name
	}
	return c.Name + " " + c.Type
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes, so
// any text is a valid SQL identifier.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// HeaderFields renders columns as a header record.
func HeaderFields(columns []Column) []string {
	fields := make([]string, len(columns))
	for i, c := range columns {
		fields[i] = c.HeaderField()
	}
	return fields
}

// ColumnNames returns the bare names of columns.
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}
