package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"docchat/internal/chunker"
	"docchat/internal/embedding"
	"docchat/internal/extractor"
	"docchat/internal/llm"
	"docchat/internal/ranker"
	"docchat/internal/session"
)

// ErrAttachmentTooLarge rejects an attachment above the configured size
// threshold, before any download or parsing happens.
var ErrAttachmentTooLarge = errors.New("attachment too large")

// Attachment describes an incoming file by reference. Format is the declared
// format tag and Size the declared byte size; both are validated before the
// payload is fetched.
type Attachment struct {
	Name   string
	Format string
	Size   int64
	URL    string
}

// Fetcher retrieves an attachment payload. Transports supply their own
// implementation (HTTP download, local file, ...).
type Fetcher interface {
	Fetch(ctx context.Context, att Attachment) ([]byte, error)
}

// Config carries the orchestrator's tunables. Values are validated by the
// config package before a Handler is built.
type Config struct {
	MaxTurns           int
	TopK               int
	MaxAttachmentBytes int64
}

// Handler sequences one incoming message end to end: ingestion, retrieval,
// context assembly, model call, history update. It has no dependency on any
// particular transport.
type Handler struct {
	cfg        Config
	sessions   *session.Store
	extractors *extractor.Registry
	splitter   *chunker.Splitter
	embedder   embedding.Embedder
	chat       llm.Provider
	fetcher    Fetcher
	log        *zap.Logger
}

// NewHandler wires the orchestrator.
func NewHandler(
	cfg Config,
	sessions *session.Store,
	extractors *extractor.Registry,
	splitter *chunker.Splitter,
	embedder embedding.Embedder,
	chat llm.Provider,
	fetcher Fetcher,
	log *zap.Logger,
) (*Handler, error) {
	if cfg.MaxTurns <= 0 {
		return nil, fmt.Errorf("max turns must be positive, got %d", cfg.MaxTurns)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = ranker.DefaultTopK
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		cfg:        cfg,
		sessions:   sessions,
		extractors: extractors,
		splitter:   splitter,
		embedder:   embedder,
		chat:       chat,
		fetcher:    fetcher,
		log:        log,
	}, nil
}

// Reply handles one message and always produces user-facing text. Per-turn
// failures are converted here into the fixed reply strings; history and the
// document index stay untouched for a failed turn.
func (h *Handler) Reply(ctx context.Context, userID, text string, att *Attachment) string {
	reply, err := h.HandleMessage(ctx, userID, text, att)
	if err == nil {
		return reply
	}
	h.log.Warn("turn failed",
		zap.String("user_id", userID),
		zap.Error(err))
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return unsupportedFormatReply
	case errors.Is(err, ErrAttachmentTooLarge):
		return tooLargeReply
	default:
		return apologyReply
	}
}

// HandleMessage runs the full turn and returns the assistant reply, or an
// error from the taxonomy (extractor.ErrUnsupportedFormat,
// ErrAttachmentTooLarge, extractor.ErrFailed, embedding.ErrService,
// llm.ErrService). A failed turn mutates neither the history nor the
// document index.
func (h *Handler) HandleMessage(ctx context.Context, userID, text string, att *Attachment) (string, error) {
	sess := h.sessions.GetOrCreate(userID)
	sess.Lock()
	defer sess.Unlock()

	sess.InstallDirective(SystemDirective)

	if att != nil {
		if err := h.ingestAttachment(ctx, sess, *att); err != nil {
			return "", err
		}
	}

	augmented := text
	if idx := sess.Index; idx != nil && len(idx.Chunks) > 0 {
		qv, err := h.embedder.Embed(ctx, text)
		if err != nil {
			return "", err
		}
		top := ranker.TopK(idx.Vectors, qv, h.cfg.TopK)
		excerpts := make([]string, len(top))
		for i, j := range top {
			excerpts[i] = idx.Chunks[j]
		}
		augmented = augmentQuestion(excerpts, text)
	}

	// Build the candidate history without mutating the session, so a chat
	// failure leaves the turn without a trace.
	candidate := sess.HistorySnapshot()
	userMsg := llm.Message{Role: llm.RoleUser, Content: augmented}
	candidate = append(candidate, userMsg)

	reply, err := h.chat.Chat(ctx, candidate)
	if err != nil {
		return "", err
	}

	sess.Append(userMsg)
	sess.Trim(h.cfg.MaxTurns)
	sess.Append(llm.Message{Role: llm.RoleAssistant, Content: reply})
	sess.Trim(h.cfg.MaxTurns)
	return reply, nil
}

// ingestAttachment validates, fetches, extracts, chunks and embeds one
// attachment, then atomically replaces the session's document index. Any
// failure leaves the previous index valid for subsequent questions.
func (h *Handler) ingestAttachment(ctx context.Context, sess *session.Session, att Attachment) error {
	format, err := extractor.ParseFormat(att.Format)
	if err != nil {
		return err
	}
	if !h.extractors.Supports(format) {
		return fmt.Errorf("%w: %q", extractor.ErrUnsupportedFormat, att.Format)
	}
	if att.Size > h.cfg.MaxAttachmentBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrAttachmentTooLarge, att.Size, h.cfg.MaxAttachmentBytes)
	}

	data, err := h.fetcher.Fetch(ctx, att)
	if err != nil {
		return fmt.Errorf("%w: fetch: %v", extractor.ErrFailed, err)
	}
	if int64(len(data)) > h.cfg.MaxAttachmentBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrAttachmentTooLarge, len(data), h.cfg.MaxAttachmentBytes)
	}

	text, err := h.extractors.Extract(format, data)
	if err != nil {
		return err
	}

	chunks := h.splitter.Split(text)
	if len(chunks) == 0 {
		// Degraded extraction (e.g. unreadable workbook). The previous
		// index, if any, remains valid.
		h.log.Warn("attachment yielded no text",
			zap.String("name", att.Name),
			zap.String("format", string(format)))
		return nil
	}

	vectors, err := h.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return err
	}

	sess.SetIndex(&session.DocumentIndex{Chunks: chunks, Vectors: vectors})
	h.log.Info("document indexed",
		zap.String("user_id", sess.UserID),
		zap.String("name", att.Name),
		zap.Int("chunks", len(chunks)))
	return nil
}
