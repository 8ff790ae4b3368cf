package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/llm"
)

func TestInstallDirectiveOnce(t *testing.T) {
	s := &Session{UserID: "u1"}
	s.InstallDirective("be helpful")
	s.InstallDirective("be different")
	require.Len(t, s.History, 1)
	assert.Equal(t, llm.RoleSystem, s.History[0].Role)
	assert.Equal(t, "be helpful", s.History[0].Content)
}

func TestTrimKeepsSystemSlot(t *testing.T) {
	const maxTurns = 4
	s := &Session{UserID: "u1"}
	s.InstallDirective("directive")

	for i := 0; i < 20; i++ {
		s.Append(llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("q%d", i)})
		s.Trim(maxTurns)
		assert.LessOrEqual(t, len(s.History), maxTurns+1)
		assert.Equal(t, llm.RoleSystem, s.History[0].Role)

		s.Append(llm.Message{Role: llm.RoleAssistant, Content: fmt.Sprintf("a%d", i)})
		s.Trim(maxTurns)
		assert.LessOrEqual(t, len(s.History), maxTurns+1)
		assert.Equal(t, llm.RoleSystem, s.History[0].Role)
	}

	// The retained window is the most recent messages, oldest evicted first.
	assert.Equal(t, "a19", s.History[len(s.History)-1].Content)
}

func TestTrimRemovesOldestNonSystem(t *testing.T) {
	s := &Session{UserID: "u1"}
	s.InstallDirective("directive")
	s.Append(llm.Message{Role: llm.RoleUser, Content: "first"})
	s.Append(llm.Message{Role: llm.RoleAssistant, Content: "second"})
	s.Append(llm.Message{Role: llm.RoleUser, Content: "third"})
	s.Trim(2)
	require.Len(t, s.History, 3)
	assert.Equal(t, "directive", s.History[0].Content)
	assert.Equal(t, "second", s.History[1].Content)
	assert.Equal(t, "third", s.History[2].Content)
}

func TestSetIndexReplacesWholesale(t *testing.T) {
	s := &Session{UserID: "u1"}
	s.SetIndex(&DocumentIndex{Chunks: []string{"a", "b"}, Vectors: [][]float64{{1}, {2}}})
	s.SetIndex(&DocumentIndex{Chunks: []string{"c"}, Vectors: [][]float64{{3}}})
	require.NotNil(t, s.Index)
	assert.Equal(t, []string{"c"}, s.Index.Chunks)
	assert.Len(t, s.Index.Vectors, len(s.Index.Chunks))
}

func TestStoreLazyCreate(t *testing.T) {
	st := NewStore()
	_, found := st.Get("u1")
	assert.False(t, found)

	s1 := st.GetOrCreate("u1")
	s2 := st.GetOrCreate("u1")
	assert.Same(t, s1, s2)

	other := st.GetOrCreate("u2")
	assert.NotSame(t, s1, other)
}

func TestConcurrentTurnsSerialized(t *testing.T) {
	st := NewStore()
	const turns = 50
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < turns; i++ {
				s := st.GetOrCreate("u1")
				s.Lock()
				s.InstallDirective("directive")
				s.Append(llm.Message{Role: llm.RoleUser, Content: "q"})
				s.Trim(6)
				s.Append(llm.Message{Role: llm.RoleAssistant, Content: "a"})
				s.Trim(6)
				s.Unlock()
			}
		}()
	}
	wg.Wait()

	s, found := st.Get("u1")
	require.True(t, found)
	assert.LessOrEqual(t, len(s.History), 7)
	assert.Equal(t, llm.RoleSystem, s.History[0].Role)
}
