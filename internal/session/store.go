package session

import (
	"sync"

	"github.com/patrickmn/go-cache"
)

// Store maps user ids to sessions. Sessions are created lazily on first
// message and live for the process lifetime; nothing is persisted.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{cache: cache.New(cache.NoExpiration, 0)}
}

// GetOrCreate returns the session for the user, creating it if absent.
func (st *Store) GetOrCreate(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if x, found := st.cache.Get(userID); found {
		return x.(*Session)
	}
	s := &Session{UserID: userID}
	st.cache.Set(userID, s, cache.NoExpiration)
	return s
}

// Get returns the session for the user if one exists.
func (st *Store) Get(userID string) (*Session, bool) {
	if x, found := st.cache.Get(userID); found {
		return x.(*Session), true
	}
	return nil, false
}
