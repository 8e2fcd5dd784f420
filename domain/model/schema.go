package model

import (
	"fmt"
	"strings"
)

// tableConstraintKeywords start a table constraint rather than a column
// definition inside a CREATE TABLE column list.
var tableConstraintKeywords = []string{"CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN"}

// ParseCreateStatement recovers the columns of a table from its stored
// CREATE TABLE text. The column list is the text between the first opening
// parenthesis and its matching closing parenthesis. Quoted identifiers
// ("x", [x], `x`, 'x') are unquoted; whatever follows the identifier is the
// declared type.
//
// This is a textual reconstruction and depends on how the engine formats
// its stored schema. Prefer structured introspection where available.
func ParseCreateStatement(stmt string) ([]Column, error) {
	body, err := columnListBody(stmt)
	if err != nil {
		return nil, err
	}

	var columns []Column
	for _, def := range splitTopLevel(body, ',') {
		def = strings.TrimSpace(def)
		if def == "" || isTableConstraint(def) {
			continue
		}
		name, rest, err := splitIdentifier(def)
		if err != nil {
			return nil, err
		}
		columns = append(columns, NewColumnFromSchema(name, declaredType(rest)))
	}
	if len(columns) == 0 {
		return nil, ErrNoColumnList
	}
	return columns, nil
}

// columnListBody returns the text inside the first balanced parentheses
func columnListBody(stmt string) (string, error) {
	depth := 0
	start := -1
	var quote byte

	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '[':
			quote = ']'
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			if depth == 0 {
				return "", fmt.Errorf("%w: unbalanced parenthesis", ErrNoColumnList)
			}
			depth--
			if depth == 0 {
				return stmt[start:i], nil
			}
		}
	}
	return "", ErrNoColumnList
}

// splitTopLevel splits s on sep outside quotes and parentheses
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '[':
			quote = ']'
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

// splitIdentifier separates the leading identifier of a column definition
// from the rest of the definition. A doubled closing quote inside a quoted
// identifier stands for one quote.
func splitIdentifier(def string) (string, string, error) {
	var closing byte
	switch def[0] {
	case '"', '\'', '`':
		closing = def[0]
	case '[':
		closing = ']'
	default:
		end := strings.IndexFunc(def, func(r rune) bool {
			return r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
		if end < 0 {
			return def, "", nil
		}
		return def[:end], def[end:], nil
	}

	var name strings.Builder
	for i := 1; i < len(def); i++ {
		c := def[i]
		if c != closing {
			name.WriteByte(c)
			continue
		}
		if closing != ']' && i+1 < len(def) && def[i+1] == closing {
			name.WriteByte(c)
			i++
			continue
		}
		return name.String(), def[i+1:], nil
	}
	return "", "", fmt.Errorf("unterminated identifier in column definition %q", def)
}

// declaredType returns the type name that starts a column definition's tail,
// ignoring constraints such as NOT NULL or DEFAULT.
func declaredType(rest string) string {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isTableConstraint reports whether a definition is a table constraint
func isTableConstraint(def string) bool {
	word := strings.ToUpper(strings.Fields(def)[0])
	for _, kw := range tableConstraintKeywords {
		if word == kw {
			return true
		}
	}
	return false
}
