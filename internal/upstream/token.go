package upstream

import "sync"

// TokenStore holds the current anti-forgery token. It carries no expiry
// logic of its own: the scheduler renews it on a fixed interval and the
// workflow re-acquires it when the upstream rejects a call as
// unauthenticated. A request issued concurrently with a refresh may
// legitimately use the token that was current at call time.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Current returns the last acquired token, or "" before first
// acquisition.
func (s *TokenStore) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Replace swaps in a freshly issued token. Callers must never patch the
// stored value in place; a failed acquisition leaves it untouched.
func (s *TokenStore) Replace(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}
