package flatql

import (
	"strings"
	"unicode"
)

// SplitStatements splits a script into statements on top-level semicolons.
// Semicolons inside string literals, quoted identifiers, comments and
// CREATE TRIGGER bodies do not split. Pieces holding only whitespace and
// comments are dropped and the returned statements carry no trailing
// semicolon.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		word       strings.Builder
		words      []string // leading keywords of the current statement, upper-cased
		lastWord   string
		hasCode    bool // the current piece has text outside comments
	)

	endWord := func() {
		if word.Len() == 0 {
			return
		}
		w := strings.ToUpper(word.String())
		if len(words) < 4 {
			words = append(words, w)
		}
		lastWord = w
		word.Reset()
	}
	emit := func() {
		if hasCode {
			statements = append(statements, strings.TrimSpace(current.String()))
		}
		current.Reset()
		words = words[:0]
		lastWord = ""
		hasCode = false
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case c == '\'' || c == '"' || c == '`' || c == '[':
			endWord()
			hasCode = true
			closing := c
			if c == '[' {
				closing = ']'
			}
			end := skipQuoted(script, i, closing)
			current.WriteString(script[i:end])
			i = end - 1
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			endWord()
			end := strings.IndexByte(script[i:], '\n')
			if end < 0 {
				end = len(script)
			} else {
				end += i
			}
			current.WriteString(script[i:end])
			i = end - 1
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			endWord()
			end := strings.Index(script[i+2:], "*/")
			if end < 0 {
				end = len(script)
			} else {
				end += i + 4
			}
			current.WriteString(script[i:end])
			i = end - 1
		case c == ';':
			endWord()
			if isTriggerHeader(words) && lastWord != "END" {
				current.WriteByte(c)
				continue
			}
			emit()
		case c == '_' || c < 0x80 && (unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))):
			word.WriteByte(c)
			current.WriteByte(c)
			hasCode = true
		default:
			endWord()
			current.WriteByte(c)
			if !unicode.IsSpace(rune(c)) {
				hasCode = true
			}
		}
	}
	endWord()
	emit()
	return statements
}

// skipQuoted returns the index just past the quoted run starting at start.
// A doubled closing character is an escaped one. An unterminated run extends
// to the end of s.
func skipQuoted(s string, start int, closing byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != closing {
			continue
		}
		if closing != ']' && i+1 < len(s) && s[i+1] == closing {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

// isTriggerHeader reports whether the leading keywords open a CREATE TRIGGER
func isTriggerHeader(words []string) bool {
	if len(words) < 2 || words[0] != "CREATE" {
		return false
	}
	for _, w := range words[1:] {
		if w == "TRIGGER" {
			return true
		}
	}
	return false
}
