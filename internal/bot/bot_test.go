package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/chunker"
	"docchat/internal/embedding"
	"docchat/internal/extractor"
	"docchat/internal/llm"
	"docchat/internal/session"
)

type fakeEmbedder struct {
	vecs       map[string][]float64
	embedErr   error
	batchErr   error
	embedCalls int
	batchCalls int
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	if v, ok := f.vecs[text]; ok {
		return v, nil
	}
	return []float64{1, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if v, ok := f.vecs[t]; ok {
			out[i] = v
		} else {
			out[i] = []float64{0, 1}
		}
	}
	return out, nil
}

type fakeChat struct {
	reply string
	err   error
	calls int
	last  []llm.Message
}

func (f *fakeChat) Chat(_ context.Context, msgs []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	f.last = msgs
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context, Attachment) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type docStub struct {
	text string
	err  error
}

func (d *docStub) Extract([]byte) (string, error) { return d.text, d.err }

type fixture struct {
	handler  *Handler
	store    *session.Store
	embedder *fakeEmbedder
	chat     *fakeChat
	fetcher  *fakeFetcher
	doc      *docStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    session.NewStore(),
		embedder: &fakeEmbedder{vecs: map[string][]float64{}},
		chat:     &fakeChat{reply: "assistant reply"},
		fetcher:  &fakeFetcher{data: []byte("raw bytes")},
		doc:      &docStub{},
	}
	registry := extractor.NewRegistry(nil)
	registry.Register(extractor.FormatPDF, f.doc)

	var err error
	f.handler, err = NewHandler(
		Config{MaxTurns: 4, TopK: 2, MaxAttachmentBytes: 1000},
		f.store,
		registry,
		chunker.NewSplitter(16, nil),
		f.embedder,
		f.chat,
		f.fetcher,
		nil,
	)
	require.NoError(t, err)
	return f
}

func pdfAttachment() *Attachment {
	return &Attachment{Name: "report.pdf", Format: "pdf", Size: 9, URL: "http://files/report.pdf"}
}

func TestNewHandlerRejectsNonPositiveMaxTurns(t *testing.T) {
	_, err := NewHandler(Config{MaxTurns: 0}, nil, nil, nil, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestPlainQuestionPassesThrough(t *testing.T) {
	f := newFixture(t)
	reply := f.handler.Reply(context.Background(), "u1", "hello there", nil)
	assert.Equal(t, "assistant reply", reply)

	require.Len(t, f.chat.last, 2)
	assert.Equal(t, llm.RoleSystem, f.chat.last[0].Role)
	assert.Equal(t, SystemDirective, f.chat.last[0].Content)
	assert.Equal(t, "hello there", f.chat.last[1].Content)
	assert.Zero(t, f.embedder.embedCalls)

	s, found := f.store.Get("u1")
	require.True(t, found)
	require.Len(t, s.History, 3)
	assert.Equal(t, llm.RoleAssistant, s.History[2].Role)
}

func TestAttachmentIngestAndRetrieval(t *testing.T) {
	f := newFixture(t)
	f.doc.text = "Alpha facts here. Beta facts here. Gamma facts here."
	f.embedder.vecs = map[string][]float64{
		"Alpha facts here": {0, 1},
		"Beta facts here":  {1, 0},
		"Gamma facts here": {1, 1},
		"what about beta":  {1, 0},
	}

	reply := f.handler.Reply(context.Background(), "u1", "what about beta", pdfAttachment())
	assert.Equal(t, "assistant reply", reply)
	assert.Equal(t, 1, f.fetcher.calls)
	assert.Equal(t, 1, f.embedder.batchCalls)
	assert.Equal(t, 1, f.embedder.embedCalls)

	s, _ := f.store.Get("u1")
	require.NotNil(t, s.Index)
	assert.Len(t, s.Index.Chunks, 3)

	prompt := f.chat.last[len(f.chat.last)-1].Content
	assert.True(t, strings.HasPrefix(prompt, "Answer the question based on the context of the following document excerpts."))
	assert.Contains(t, prompt, "Beta facts here")
	assert.Contains(t, prompt, "Gamma facts here")
	assert.NotContains(t, prompt, "Alpha facts here")
	assert.True(t, strings.HasSuffix(prompt, "Question: what about beta"))

	// The raw question, not the augmented prompt, is what the user said; the
	// augmented form is what goes into history.
	assert.Equal(t, prompt, s.History[1].Content)
}

func TestUnsupportedFormatRejectedBeforeFetch(t *testing.T) {
	f := newFixture(t)
	att := &Attachment{Name: "data.csv", Format: "csv", Size: 5, URL: "http://files/data.csv"}
	reply := f.handler.Reply(context.Background(), "u1", "summarize", att)
	assert.Equal(t, unsupportedFormatReply, reply)
	assert.Zero(t, f.fetcher.calls)
	assert.Zero(t, f.chat.calls)

	s, found := f.store.Get("u1")
	require.True(t, found)
	assert.Len(t, s.History, 1)
}

func TestDeclaredSizeTooLarge(t *testing.T) {
	f := newFixture(t)
	att := pdfAttachment()
	att.Size = 5000
	reply := f.handler.Reply(context.Background(), "u1", "summarize", att)
	assert.Equal(t, tooLargeReply, reply)
	assert.Zero(t, f.fetcher.calls)
	assert.Zero(t, f.embedder.batchCalls)
}

func TestActualSizeTooLarge(t *testing.T) {
	f := newFixture(t)
	f.fetcher.data = make([]byte, 2000)
	reply := f.handler.Reply(context.Background(), "u1", "summarize", pdfAttachment())
	assert.Equal(t, tooLargeReply, reply)
	assert.Equal(t, 1, f.fetcher.calls)
	assert.Zero(t, f.chat.calls)
}

func TestExtractionFailureApologizes(t *testing.T) {
	f := newFixture(t)
	f.doc.err = extractor.ErrFailed
	reply := f.handler.Reply(context.Background(), "u1", "summarize", pdfAttachment())
	assert.Equal(t, apologyReply, reply)
	assert.Zero(t, f.chat.calls)
}

func TestChatFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.chat.err = llm.ErrService

	reply := f.handler.Reply(context.Background(), "u1", "hello", nil)
	assert.Equal(t, apologyReply, reply)

	s, found := f.store.Get("u1")
	require.True(t, found)
	assert.Len(t, s.History, 1)

	// A later successful turn starts clean.
	f.chat.err = nil
	f.handler.Reply(context.Background(), "u1", "hello again", nil)
	require.Len(t, s.History, 3)
	assert.Equal(t, "hello again", s.History[1].Content)
}

func TestEmbedBatchFailureKeepsPreviousIndex(t *testing.T) {
	f := newFixture(t)
	f.doc.text = "First document sentence."
	f.handler.Reply(context.Background(), "u1", "hi", pdfAttachment())

	s, _ := f.store.Get("u1")
	require.NotNil(t, s.Index)
	previous := s.Index

	f.doc.text = "Second document sentence."
	f.embedder.batchErr = embedding.ErrService
	reply := f.handler.Reply(context.Background(), "u1", "hi again", pdfAttachment())
	assert.Equal(t, apologyReply, reply)
	assert.Same(t, previous, s.Index)
}

func TestNewAttachmentReplacesIndex(t *testing.T) {
	f := newFixture(t)
	f.doc.text = "Old content only."
	f.handler.Reply(context.Background(), "u1", "hi", pdfAttachment())

	f.doc.text = "New content only."
	f.handler.Reply(context.Background(), "u1", "hi again", pdfAttachment())

	s, _ := f.store.Get("u1")
	require.NotNil(t, s.Index)
	assert.Equal(t, []string{"New content only"}, s.Index.Chunks)
}

func TestEmptyExtractionKeepsPreviousIndex(t *testing.T) {
	f := newFixture(t)
	f.doc.text = "Real content here."
	f.handler.Reply(context.Background(), "u1", "hi", pdfAttachment())

	s, _ := f.store.Get("u1")
	previous := s.Index
	require.NotNil(t, previous)

	f.doc.text = ""
	reply := f.handler.Reply(context.Background(), "u1", "still there?", pdfAttachment())
	assert.Equal(t, "assistant reply", reply)
	assert.Same(t, previous, s.Index)
}

func TestHistoryBounded(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		f.handler.Reply(context.Background(), "u1", "question", nil)
	}
	s, _ := f.store.Get("u1")
	assert.LessOrEqual(t, len(s.History), 5)
	assert.Equal(t, llm.RoleSystem, s.History[0].Role)
}

func TestSessionsAreIsolated(t *testing.T) {
	f := newFixture(t)
	f.doc.text = "Private to user one."
	f.handler.Reply(context.Background(), "u1", "hi", pdfAttachment())
	f.handler.Reply(context.Background(), "u2", "hi", nil)

	s2, found := f.store.Get("u2")
	require.True(t, found)
	assert.Nil(t, s2.Index)
	// Only the turn with an index embeds a question.
	assert.Equal(t, 1, f.embedder.embedCalls)
}

func TestAugmentQuestionNoExcerpts(t *testing.T) {
	assert.Equal(t, "plain", augmentQuestion(nil, "plain"))
}
