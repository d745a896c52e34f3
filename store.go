package session

import "sync"

// Store is the thin state surface holding the cached identity. It performs no
// I/O of its own: the persisted-credential check is delegated to the
// IdentityService, and the cached identity is written exclusively by
// operation success paths, never directly by UI code.
//
// The two reads are deliberately independent. A cached identity with an
// invalid or expired credential must be treated as unauthenticated; callers
// combine both checks, with credential validity the stricter gate.
type Store struct {
	mu   sync.RWMutex
	user *User
	svc  IdentityService
}

// NewStore creates a Store backed by the given identity collaborator.
func NewStore(svc IdentityService) *Store {
	return &Store{svc: svc}
}

// CurrentUser returns the cached identity, consulting the collaborator's own
// cache on a cold read. Independent of IsAuthenticated.
func (s *Store) CurrentUser() *User {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()

	if user != nil {
		return user
	}

	if s.svc != nil {
		return s.svc.CurrentUser()
	}

	return nil
}

// IsAuthenticated reports whether the persisted credential is currently
// valid. It does not say anything about whether an identity is cached.
func (s *Store) IsAuthenticated() bool {
	if s.svc == nil {
		return false
	}
	return s.svc.IsAuthenticated()
}

// SetCurrentUser replaces the cached identity.
func (s *Store) SetCurrentUser(user *User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Clear drops the cached identity.
func (s *Store) Clear() {
	s.SetCurrentUser(nil)
}
