package model

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// asciiSpecials holds every byte the codec treats specially plus a few letters.
// An encoding is usable only if it maps these bytes to themselves.
var asciiSpecials = []byte("azAZ09 ,;|\t\"'\\\r\n")

// Encoding converts field text to and from bytes. Only ASCII compatible
// encodings are supported because delimiters are located on raw bytes
// before a field is decoded.
type Encoding struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

// LookupEncoding resolves an IANA encoding name such as "utf-8", "iso-8859-1",
// "windows-1252" or "shift_jis".
func LookupEncoding(name string) (*Encoding, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "", "utf-8", "utf8":
		return &Encoding{name: DefaultEncoding, enc: unicode.UTF8, utf8: true}, nil
	}

	enc, err := ianaindex.IANA.Encoding(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, name)
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: %s has no implementation", ErrUnsupportedEncoding, name)
	}
	if enc == unicode.UTF8 {
		return &Encoding{name: DefaultEncoding, enc: enc, utf8: true}, nil
	}

	encoded, err := enc.NewEncoder().Bytes(asciiSpecials)
	if err != nil || !bytes.Equal(encoded, asciiSpecials) {
		return nil, fmt.Errorf("%w: %s is not ASCII compatible", ErrUnsupportedEncoding, name)
	}
	decoded, err := enc.NewDecoder().Bytes(asciiSpecials)
	if err != nil || !bytes.Equal(decoded, asciiSpecials) {
		return nil, fmt.Errorf("%w: %s is not ASCII compatible", ErrUnsupportedEncoding, name)
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = normalized
	}
	return &Encoding{name: strings.ToLower(canonical), enc: enc}, nil
}

// Name returns the canonical lower case name of the encoding.
func (e *Encoding) Name() string {
	return e.name
}

// Decode converts raw field bytes to text.
func (e *Encoding) Decode(b []byte) (string, error) {
	if isASCII(b) {
		return string(b), nil
	}
	if e.utf8 {
		if !utf8.Valid(b) {
			return "", errInvalidBytes
		}
		return string(b), nil
	}

	decoded, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidBytes, err)
	}
	// x/text decoders substitute U+FFFD for undecodable input
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", errInvalidBytes
	}
	return string(decoded), nil
}

// Encode converts field text to raw bytes.
func (e *Encoding) Encode(s string) ([]byte, error) {
	if isASCIIString(s) {
		return []byte(s), nil
	}
	if e.utf8 {
		if !utf8.ValidString(s) {
			return nil, errInvalidBytes
		}
		return []byte(s), nil
	}

	encoded, err := e.enc.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("cannot encode %q as %s: %w", s, e.name, err)
	}
	return []byte(encoded), nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isASCIIString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
