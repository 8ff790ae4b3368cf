package chunker

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxChunkSize bounds chunk length in characters.
const DefaultMaxChunkSize = 1000

// Splitter splits plain text into size-bounded, sentence-aligned chunks.
type Splitter struct {
	maxChunkSize int
	delimiter    *regexp.Regexp
	log          *zap.Logger
}

// NewSplitter creates a splitter with the given chunk size bound.
func NewSplitter(maxChunkSize int, log *zap.Logger) *Splitter {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Splitter{
		maxChunkSize: maxChunkSize,
		delimiter:    regexp.MustCompile(`[.!?]`),
		log:          log,
	}
}

// Split breaks text into chunks of whole sentences. Sentences are delimited
// by '.', '!' or '?' (the delimiters are dropped). Sentences accumulate into
// a chunk until appending the next one would exceed the size bound; the chunk
// is then flushed and a new one starts with that sentence. A single sentence
// longer than the bound is emitted whole rather than split mid-sentence; the
// overflow is logged so it can be observed. Empty input yields no chunks.
func (s *Splitter) Split(text string) []string {
	var sentences []string
	for _, part := range s.delimiter.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var buf strings.Builder
	flush := func() {
		chunk := strings.TrimSpace(buf.String())
		if chunk == "" {
			return
		}
		if len(chunk) > s.maxChunkSize {
			s.log.Warn("chunk exceeds size bound",
				zap.Int("length", len(chunk)),
				zap.Int("max", s.maxChunkSize))
		}
		chunks = append(chunks, chunk)
		buf.Reset()
	}

	for _, sentence := range sentences {
		if buf.Len() > 0 && buf.Len()+1+len(sentence) > s.maxChunkSize {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(sentence)
	}
	flush()
	return chunks
}
