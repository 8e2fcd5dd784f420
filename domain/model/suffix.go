package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidSuffix is returned when a managed suffix is empty or contains a path separator
var ErrInvalidSuffix = errors.New("invalid file suffix")

// Compression extensions
const (
	// ExtGZ is the gzip compression extension
	ExtGZ = ".gz"
	// ExtBZ2 is the bzip2 compression extension
	ExtBZ2 = ".bz2"
	// ExtXZ is the xz compression extension
	ExtXZ = ".xz"
	// ExtZSTD is the zstd compression extension
	ExtZSTD = ".zst"
)

// DefaultSuffix is the managed suffix used when none is configured
const DefaultSuffix = "csv"

// CompressionType represents the compression applied to managed files
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return ExtGZ
	case CompressionBZ2:
		return ExtBZ2
	case CompressionXZ:
		return ExtXZ
	case CompressionZSTD:
		return ExtZSTD
	default:
		return ""
	}
}

// Suffix is the file suffix that marks a file as part of the dataset, such as
// "csv", "tsv" or "csv.gz". Matching is case-sensitive.
type Suffix struct {
	value string
}

// NewSuffix validates and normalizes a suffix. A leading dot is optional.
func NewSuffix(s string) (Suffix, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), ".")
	if s == "" {
		return Suffix{}, fmt.Errorf("%w: suffix cannot be empty", ErrInvalidSuffix)
	}
	if strings.ContainsAny(s, `/\`) {
		return Suffix{}, fmt.Errorf("%w: %q contains a path separator", ErrInvalidSuffix, s)
	}
	return Suffix{value: s}, nil
}

// String returns the suffix without a leading dot.
func (s Suffix) String() string {
	return s.value
}

// Extension returns the suffix with a leading dot.
func (s Suffix) Extension() string {
	return "." + s.value
}

// Compression detects the compression type from the suffix
func (s Suffix) Compression() CompressionType {
	v := strings.ToLower(s.value)
	switch {
	case strings.HasSuffix(v, ExtGZ):
		return CompressionGZ
	case strings.HasSuffix(v, ExtBZ2):
		return CompressionBZ2
	case strings.HasSuffix(v, ExtXZ):
		return CompressionXZ
	case strings.HasSuffix(v, ExtZSTD):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// Matches reports whether fileName carries the suffix and a non-empty stem.
func (s Suffix) Matches(fileName string) bool {
	base := filepath.Base(fileName)
	return len(base) > len(s.Extension()) && strings.HasSuffix(base, s.Extension())
}

// TableName derives the table name from a file path: the base name with the
// suffix stripped.
func (s Suffix) TableName(filePath string) string {
	return strings.TrimSuffix(filepath.Base(filePath), s.Extension())
}

// FileName returns the file name for a table.
func (s Suffix) FileName(table string) string {
	return table + s.Extension()
}
