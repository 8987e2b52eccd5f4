package tripwizard

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionStore keeps live wizard sessions in memory with a sliding TTL.
// Abandoned sessions fall out on their own; anything worth keeping longer
// is saved as a draft through the repository.
type SessionStore struct {
	sessions *cache.Cache
}

const (
	sessionTTL    = 4 * time.Hour
	cleanupPeriod = 30 * time.Minute
)

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: cache.New(sessionTTL, cleanupPeriod),
	}
}

func (s *SessionStore) Put(sessionID uuid.UUID, w *Wizard) {
	s.sessions.Set(sessionID.String(), w, cache.DefaultExpiration)
}

// Get returns the session and refreshes its TTL.
func (s *SessionStore) Get(sessionID uuid.UUID) (*Wizard, bool) {
	v, found := s.sessions.Get(sessionID.String())
	if !found {
		return nil, false
	}
	w, ok := v.(*Wizard)
	if !ok {
		return nil, false
	}
	s.sessions.Set(sessionID.String(), w, cache.DefaultExpiration)
	return w, true
}

func (s *SessionStore) Delete(sessionID uuid.UUID) {
	s.sessions.Delete(sessionID.String())
}
