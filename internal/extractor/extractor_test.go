package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"pdf":   FormatPDF,
		".PDF":  FormatPDF,
		"docx":  FormatDOCX,
		"doc":   FormatDOC,
		"XLSX":  FormatXLSX,
		".xls":  FormatXLS,
		" pdf ": FormatPDF,
	}
	for tag, want := range cases {
		got, err := ParseFormat(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, want, got, tag)
	}

	for _, tag := range []string{"csv", "txt", "png", "", "pdf.exe"} {
		_, err := ParseFormat(tag)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, tag)
	}
}

func TestFormatFromFilename(t *testing.T) {
	f, err := FormatFromFilename("report.Q3.DOCX")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, f)

	_, err = FormatFromFilename("notes.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

type stubExtractor struct {
	text  string
	calls int
	err   error
}

func (s *stubExtractor) Extract([]byte) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(nil)
	for _, f := range []Format{FormatPDF, FormatDOC, FormatDOCX, FormatXLSX, FormatXLS} {
		assert.True(t, r.Supports(f))
	}

	stub := &stubExtractor{text: "hello"}
	r.Register(FormatPDF, stub)
	text, err := r.Extract(FormatPDF, []byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, stub.calls)
}

func TestRegistryUnknownFormat(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Extract(Format("csv"), []byte("a,b"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, r.Supports(Format("csv")))
}

func TestPDFMalformedBytes(t *testing.T) {
	e := &PDFExtractor{}
	_, err := e.Extract([]byte("definitely not a pdf"))
	assert.ErrorIs(t, err, ErrFailed)
}

func TestDocxMalformedBytes(t *testing.T) {
	e := &DocxExtractor{}
	_, err := e.Extract([]byte("not a zip archive"))
	assert.ErrorIs(t, err, ErrFailed)
}

func TestDocMalformedBytes(t *testing.T) {
	e := &DocExtractor{}
	_, err := e.Extract([]byte("not an ole compound file"))
	assert.ErrorIs(t, err, ErrFailed)
}
