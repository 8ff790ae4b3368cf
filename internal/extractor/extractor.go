package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Format identifies a supported attachment format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOC  Format = "doc"
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

var (
	// ErrUnsupportedFormat rejects a declared format outside the supported
	// set. It must be checked before any download or parsing is attempted.
	ErrUnsupportedFormat = errors.New("unsupported attachment format")

	// ErrFailed marks malformed bytes for a supported format. Fatal to the
	// request, not the session.
	ErrFailed = errors.New("extraction failed")
)

// Extractor converts a raw document byte buffer into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// ParseFormat normalizes a declared format tag ("pdf", ".PDF", ...) into a
// Format, or reports ErrUnsupportedFormat.
func ParseFormat(tag string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), ".")))
	switch f {
	case FormatPDF, FormatDOC, FormatDOCX, FormatXLSX, FormatXLS:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
}

// FormatFromFilename derives the declared format from a file name extension.
func FormatFromFilename(name string) (Format, error) {
	return ParseFormat(filepath.Ext(name))
}

// Registry maps format tags to extractor implementations, so new formats can
// be added without touching the dispatcher.
type Registry struct {
	mu         sync.RWMutex
	extractors map[Format]Extractor
}

// NewRegistry builds a registry with all supported formats registered.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{extractors: make(map[Format]Extractor)}
	r.Register(FormatPDF, &PDFExtractor{})
	r.Register(FormatDOC, &DocExtractor{})
	r.Register(FormatDOCX, &DocxExtractor{})
	r.Register(FormatXLSX, &XLSXExtractor{log: log})
	r.Register(FormatXLS, &XLSExtractor{log: log})
	return r
}

// Register installs (or replaces) the extractor for a format.
func (r *Registry) Register(f Format, e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[f] = e
}

// Supports reports whether the registry can extract the given format.
func (r *Registry) Supports(f Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.extractors[f]
	return ok
}

// Extract dispatches to the extractor registered for the format.
func (r *Registry) Extract(f Format, data []byte) (string, error) {
	r.mu.RLock()
	e, ok := r.extractors[f]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return e.Extract(data)
}
