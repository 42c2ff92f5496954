package game

import (
	"context"

	"example.com/mastermind/internal/puzzle"
)

// SessionService отвечает за:
// - реестр живых сессий
// - восстановление сессий из persistent storage (Redis)
type SessionService struct {
	reg     *SessionRegistry
	persist SessionPersistence
}

func NewSessionService(persist SessionPersistence) *SessionService {
	return &SessionService{
		reg:     NewSessionRegistry(),
		persist: persist,
	}
}

func (s *SessionService) Create(ctx context.Context, sessionID string, d puzzle.Difficulty, seed int64, seeded bool) (*Session, error) {
	sess, err := NewSession(sessionID, d, seed, seeded)
	if err != nil {
		return nil, err
	}

	// hook: любое изменение сессии сохраняет snapshot
	s.hangPersist(sessionID, sess)

	// первичное сохранение
	sess.mu.Lock()
	snap := sess.snapshotLocked()
	sess.mu.Unlock()
	if err := s.persist.Save(ctx, sessionID, snap); err != nil {
		return nil, err
	}

	s.reg.Put(sessionID, sess)
	return sess, nil
}

func (s *SessionService) GetOrLoad(ctx context.Context, sessionID string) (*Session, bool, error) {
	if sess, ok := s.reg.Get(sessionID); ok {
		return sess, true, nil
	}

	snap, found, err := s.persist.Load(ctx, sessionID)
	if err != nil || !found {
		return nil, false, err
	}

	sess := &Session{id: sessionID}
	sess.mu.Lock()
	sess.restoreLocked(snap)
	sess.mu.Unlock()

	// hook снова навешиваем
	s.hangPersist(sessionID, sess)

	s.reg.Put(sessionID, sess)
	return sess, true, nil
}

// hangPersist wires the snapshot hook. The hook outlives any request, so it
// saves with its own context.
func (s *SessionService) hangPersist(sessionID string, sess *Session) {
	sess.onPersist = func(snap SessionSnapshot) {
		_ = s.persist.Save(context.Background(), sessionID, snap)
	}
}
