package flatql

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/nao1215/flatql/domain/model"
	"github.com/ulikunitz/xz"
)

// CompressionHandler wraps managed file streams for a compressed suffix such
// as "csv.gz". Both constructors return a close function that finishes the
// compressed stream without closing the underlying file.
type CompressionHandler interface {
	// CreateReader returns the decompressed view of a managed file
	CreateReader(reader io.Reader) (io.Reader, func() error, error)
	// CreateWriter returns a writer that compresses a staged table file
	CreateWriter(writer io.Writer) (io.Writer, func() error, error)
	// CanWrite reports whether tables can be flushed with this compression
	CanWrite() bool
}

// suffixCompression is the CompressionHandler for one compression type
type suffixCompression struct {
	compression model.CompressionType
}

// NewCompressionHandler returns the handler for a suffix's compression type.
func NewCompressionHandler(compression model.CompressionType) CompressionHandler {
	return &suffixCompression{compression: compression}
}

// noClose is the close function of streams that hold no state
func noClose() error {
	return nil
}

// CreateReader implements CompressionHandler.
func (h *suffixCompression) CreateReader(reader io.Reader) (io.Reader, func() error, error) {
	switch h.compression {
	case model.CompressionNone:
		return reader, noClose, nil
	case model.CompressionGZ:
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("managed file is not valid gzip: %w", err)
		}
		return gz, gz.Close, nil
	case model.CompressionBZ2:
		return bzip2.NewReader(reader), noClose, nil
	case model.CompressionXZ:
		x, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("managed file is not valid xz: %w", err)
		}
		return x, noClose, nil
	case model.CompressionZSTD:
		zr, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("managed file is not valid zstd: %w", err)
		}
		return zr, func() error {
			zr.Close()
			return nil
		}, nil
	}
	return nil, nil, fmt.Errorf("%w: cannot read %s files", ErrUnsupportedCompression, h.compression)
}

// CreateWriter implements CompressionHandler. bzip2 has no encoder, so
// bzip2 datasets are read-only.
func (h *suffixCompression) CreateWriter(writer io.Writer) (io.Writer, func() error, error) {
	switch h.compression {
	case model.CompressionNone:
		return writer, noClose, nil
	case model.CompressionGZ:
		gz := gzip.NewWriter(writer)
		return gz, gz.Close, nil
	case model.CompressionXZ:
		x, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot stage xz table file: %w", err)
		}
		return x, x.Close, nil
	case model.CompressionZSTD:
		zw, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot stage zstd table file: %w", err)
		}
		return zw, zw.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: %s datasets are read-only", ErrUnsupportedCompression, h.compression)
}

// CanWrite implements CompressionHandler.
func (h *suffixCompression) CanWrite() bool {
	switch h.compression {
	case model.CompressionNone, model.CompressionGZ, model.CompressionXZ, model.CompressionZSTD:
		return true
	}
	return false
}
