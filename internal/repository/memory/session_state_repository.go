package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionState is the per-session turn lock serializing concurrent posts
// to one session. In-process only; nothing here survives a restart, the
// database stays the source of truth.
type SessionState struct {
	mu sync.Mutex
}

func (s *SessionState) Lock()   { s.mu.Lock() }
func (s *SessionState) Unlock() { s.mu.Unlock() }

type SessionStateRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionStateRepository() *SessionStateRepository {
	// Idle sessions expire after an hour, purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionStateRepository{
		cache: c,
	}
}

// Acquire returns the state for a session, creating it if absent. The
// create-if-absent step is guarded so two concurrent posts to a fresh
// session still share one lock.
func (r *SessionStateRepository) Acquire(sessionID string) *SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(sessionID); found {
		state := x.(*SessionState)
		// Refresh the expiry while the session is active.
		r.cache.Set(sessionID, state, cache.DefaultExpiration)
		return state
	}
	state := &SessionState{}
	r.cache.Set(sessionID, state, cache.DefaultExpiration)
	return state
}

func (r *SessionStateRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
