package session

import (
	"sync"

	"docchat/internal/llm"
)

// DocumentIndex holds the chunks of the user's current document and their
// embedding vectors. Chunks[i] corresponds to Vectors[i]; the two slices are
// always the same length. A new upload replaces the index wholesale.
type DocumentIndex struct {
	Chunks  []string
	Vectors [][]float64
}

// Session is the per-user in-memory state: the bounded conversation history
// and the currently indexed document. The first history entry, once present,
// is always the system directive.
//
// Session state is read-modify-written across external call boundaries, so a
// turn must hold the session lock for its whole duration. Sessions are
// independent; there is no cross-user locking.
type Session struct {
	mu      sync.Mutex
	UserID  string
	History []llm.Message
	Index   *DocumentIndex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// InstallDirective seeds the system message at slot 0. It is a no-op unless
// the history is empty, so the directive is installed exactly once.
func (s *Session) InstallDirective(directive string) {
	if len(s.History) > 0 {
		return
	}
	s.History = append(s.History, llm.Message{Role: llm.RoleSystem, Content: directive})
}

// Append adds a message to the history.
func (s *Session) Append(m llm.Message) {
	s.History = append(s.History, m)
}

// Trim enforces the history cap: while more than maxTurns non-system
// messages are retained, the oldest non-system entry (index 1) is removed.
// Slot 0 is never touched. maxTurns is validated at configuration time.
func (s *Session) Trim(maxTurns int) {
	for len(s.History) > maxTurns+1 {
		s.History = append(s.History[:1], s.History[2:]...)
	}
}

// SetIndex atomically replaces the document index.
func (s *Session) SetIndex(idx *DocumentIndex) {
	s.Index = idx
}

// HistorySnapshot returns a copy of the history safe to hand to a provider.
func (s *Session) HistorySnapshot() []llm.Message {
	out := make([]llm.Message, len(s.History))
	copy(out, s.History)
	return out
}
