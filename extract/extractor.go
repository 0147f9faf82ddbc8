package extract

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedFormat indicates no extractor handles the declared file type.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrCorruptFile indicates the file bytes could not be parsed as the
	// declared format.
	ErrCorruptFile = errors.New("corrupt file")
)

// Extractor turns raw file bytes into plain text.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// CanExtract reports whether this extractor handles the declared type
	// (a lowercase file extension such as ".pdf", or a MIME type).
	CanExtract(declaredType string) bool

	// Extract parses the file bytes and returns the plain text content.
	// Returns ErrCorruptFile (wrapped) when the bytes do not match the
	// declared format.
	Extract(ctx context.Context, data []byte, declaredType string) (string, error)
}
