package extractor

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
)

// DocxExtractor pulls raw paragraph text out of a docx archive, discarding
// formatting and embedded objects.
type DocxExtractor struct{}

// Extract implements the Extractor interface.
func (e *DocxExtractor) Extract(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrFailed, err)
	}
	return text, nil
}
