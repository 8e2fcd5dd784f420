package flatql

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nao1215/flatql/domain/model"
)

// validator handles validation logic for Builder
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateDirectory checks that path names an existing directory
func (v *validator) validateDirectory(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrNoPath
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &IOError{Op: "open dataset", Path: path, Err: err}
		}
		return &IOError{Op: "stat", Path: path, Err: err}
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return nil
}

// validateDialect checks the dialect before any file is touched
func (v *validator) validateDialect(dialect model.Dialect) error {
	if err := dialect.Validate(); err != nil {
		return fmt.Errorf("invalid dialect: %w", err)
	}
	return nil
}

// validateWritable checks that tables can be written back with suffix
func (v *validator) validateWritable(suffix model.Suffix) error {
	if !NewCompressionHandler(suffix.Compression()).CanWrite() {
		return fmt.Errorf("%w: suffix %q is read-only", ErrUnsupportedCompression, suffix.String())
	}
	return nil
}
