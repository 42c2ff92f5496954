package game

import "sync"

// SessionRegistry держит живые сессии в памяти. Persistent-слой (Redis) —
// отдельно, реестр нужен только для открытых сессий.
type SessionRegistry struct {
	mu sync.Mutex
	m  map[string]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		m: make(map[string]*Session),
	}
}

func (r *SessionRegistry) Put(sessionID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[sessionID] = s
}

func (r *SessionRegistry) Get(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[sessionID]
	return s, ok
}

func (r *SessionRegistry) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, sessionID)
}
