package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text from PDF files page by page.
type PDF struct {
	logger *slog.Logger
}

var _ Extractor = (*PDF)(nil)

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{
		logger: slog.Default().With("component", "pdf-extractor"),
	}
}

// CanExtract reports whether the declared type is a PDF.
func (p *PDF) CanExtract(declaredType string) bool {
	t := normalizeType(declaredType)
	return t == ".pdf" || t == "application/pdf"
}

// Extract parses the PDF and concatenates the plain text of every page,
// separated by blank lines so page breaks survive as paragraph boundaries.
func (p *PDF) Extract(ctx context.Context, data []byte, declaredType string) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf parser panic: %v", ErrCorruptFile, r)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}

	numPages := pdfReader.NumPage()
	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("skipping unreadable pdf page", "page", i, "err", err)
			continue
		}

		if strings.TrimSpace(pageText) == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}

	return sb.String(), nil
}
