package extractor

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// DocExtractor reads legacy binary Word files. It walks the OLE compound
// file to the WordDocument stream and collects runs of printable text, both
// single-byte and UTF-16LE. Best effort: character runs shorter than the
// threshold are treated as structure noise and dropped.
type DocExtractor struct{}

const minDocRun = 4

// Extract implements the Extractor interface.
func (e *DocExtractor) Extract(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: doc: %v", ErrFailed, err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "WordDocument" {
			continue
		}
		stream, err := io.ReadAll(entry)
		if err != nil {
			return "", fmt.Errorf("%w: doc: %v", ErrFailed, err)
		}
		return scanPrintable(stream), nil
	}
	return "", fmt.Errorf("%w: doc: no WordDocument stream", ErrFailed)
}

// scanPrintable extracts printable text runs from a WordDocument stream.
// UTF-16LE runs are recognized first (characters interleaved with zero
// bytes), then plain single-byte runs.
func scanPrintable(stream []byte) string {
	var out strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= minDocRun {
			if out.Len() > 0 {
				out.WriteByte(' ')
			}
			out.WriteString(strings.TrimSpace(string(run)))
		}
		run = run[:0]
	}

	for i := 0; i < len(stream); {
		// UTF-16LE code unit: printable low byte followed by a zero byte.
		if i+1 < len(stream) && stream[i+1] == 0 {
			u := utf16.Decode([]uint16{uint16(stream[i])})
			if len(u) == 1 && printableRune(u[0]) {
				run = append(run, u[0])
				i += 2
				continue
			}
		}
		if printableRune(rune(stream[i])) {
			run = append(run, rune(stream[i]))
			i++
			continue
		}
		flush()
		i++
	}
	flush()
	return out.String()
}

func printableRune(r rune) bool {
	return r == ' ' || r == '\t' || unicode.IsPrint(r)
}
