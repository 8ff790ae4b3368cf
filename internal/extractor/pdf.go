package extractor

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor concatenates all recoverable text content of a PDF stream in
// document order, discarding layout and formatting.
type PDFExtractor struct{}

// Extract implements the Extractor interface.
func (e *PDFExtractor) Extract(data []byte) (text string, err error) {
	// The parser panics on some malformed streams; surface that as a
	// request-level extraction failure.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf: %v", ErrFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrFailed, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrFailed, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrFailed, err)
	}
	return buf.String(), nil
}
