package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTripMidGame(t *testing.T) {
	s := newClassicSession(t, 42)
	s.Attach("u1", "Alice", newTestConn())

	bad := wrongGuess(s)
	playGuess(t, s, bad)
	playGuess(t, s, bad)
	require.NoError(t, s.SetSymbol(0, 3))

	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	// через JSON, как это делает Redis-слой
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded SessionSnapshot
	require.NoError(t, json.Unmarshal(b, &decoded))

	restored := &Session{id: decoded.SessionID}
	restored.mu.Lock()
	restored.restoreLocked(decoded)
	restored.mu.Unlock()

	assert.Equal(t, "s1", restored.ID())
	assert.Equal(t, StatusPlaying, restored.Status())
	assert.Equal(t, 2, restored.AttemptsUsed())
	assert.True(t, sessionSecret(restored).Equal(sessionSecret(s)))

	restored.mu.Lock()
	defer restored.mu.Unlock()
	assert.Equal(t, "classic", restored.diff.Name)
	assert.Equal(t, 8, restored.maxAttempts)
	assert.Equal(t, int64(42), restored.seed)
	assert.True(t, restored.seeded)
	assert.Equal(t, "u1", restored.ownerID)
	assert.Equal(t, "Alice", restored.ownerName)
	assert.Len(t, restored.history, 2)
	assert.True(t, restored.history[0].Guess.Equal(bad))
	assert.Equal(t, 3, restored.current[0])
	assert.Equal(t, emptySlot, restored.current[1])
}

func TestSnapshot_RestoredSeededSessionRestartsToSameSecret(t *testing.T) {
	s := newClassicSession(t, 42)
	original := sessionSecret(s)

	playGuess(t, s, wrongGuess(s))

	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	restored := &Session{id: snap.SessionID}
	restored.mu.Lock()
	restored.restoreLocked(snap)
	restored.mu.Unlock()

	restored.Restart()

	assert.True(t, sessionSecret(restored).Equal(original))
	assert.Equal(t, 0, restored.AttemptsUsed())
}

func TestSnapshot_TerminalStateSurvives(t *testing.T) {
	s := newClassicSession(t, 43)
	playGuess(t, s, sessionSecret(s))
	require.Equal(t, StatusWon, s.Status())

	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	restored := &Session{id: snap.SessionID}
	restored.mu.Lock()
	restored.restoreLocked(snap)
	restored.mu.Unlock()

	assert.Equal(t, StatusWon, restored.Status())
	assert.Equal(t, 3, restored.Stars())

	secret, err := restored.Secret()
	require.NoError(t, err)
	assert.True(t, secret.Equal(sessionSecret(s)))
}
