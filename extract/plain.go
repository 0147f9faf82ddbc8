package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// PlainText extracts text from UTF-8 plain text formats.
type PlainText struct{}

var _ Extractor = (*PlainText)(nil)

// NewPlainText creates a plain text extractor.
func NewPlainText() *PlainText {
	return &PlainText{}
}

var plainTextTypes = map[string]bool{
	".txt":           true,
	".md":            true,
	".markdown":      true,
	".csv":           true,
	"text/plain":     true,
	"text/markdown":  true,
	"text/csv":       true,
}

// CanExtract reports whether the declared type is a plain text format.
func (p *PlainText) CanExtract(declaredType string) bool {
	return plainTextTypes[normalizeType(declaredType)]
}

// Extract validates the bytes as UTF-8 and returns them as a string.
// Invalid UTF-8 is treated as a corrupt file rather than silently mangled.
func (p *PlainText) Extract(ctx context.Context, data []byte, declaredType string) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrCorruptFile, declaredType)
	}
	return string(data), nil
}

// normalizeType lowercases a declared type and strips MIME parameters
// ("text/plain; charset=utf-8" -> "text/plain").
func normalizeType(declaredType string) string {
	t := strings.ToLower(strings.TrimSpace(declaredType))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
