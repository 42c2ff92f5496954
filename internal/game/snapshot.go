package game

import (
	"math/rand"
	"time"

	"example.com/mastermind/internal/puzzle"
)

// SessionSnapshot — сериализуемое состояние сессии, которое можно положить в Redis.
type SessionSnapshot struct {
	SessionID string `json:"sessionId"`

	DifficultyName  string `json:"difficulty"`
	CodeLength      int    `json:"codeLength"`
	ColorCount      int    `json:"colorCount"`
	AllowDuplicates bool   `json:"allowDuplicates"`
	BaseAttempts    int    `json:"baseAttempts"`

	Seed   int64 `json:"seed"`
	Seeded bool  `json:"seeded"`

	Status string `json:"status"`

	Secret  []int         `json:"secret"`
	Current []int         `json:"current"`
	History []HistoryItem `json:"history"`

	AttemptsUsed int  `json:"attemptsUsed"`
	MaxAttempts  int  `json:"maxAttempts"`
	BonusGranted bool `json:"bonusGranted"`
	Stars        int  `json:"stars"`

	OwnerID   string `json:"ownerId,omitempty"`
	OwnerName string `json:"ownerName,omitempty"`
}

func (s *Session) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		SessionID: s.id,

		DifficultyName:  s.diff.Name,
		CodeLength:      s.diff.CodeLength,
		ColorCount:      s.diff.ColorCount,
		AllowDuplicates: s.diff.AllowDuplicates,
		BaseAttempts:    s.diff.MaxAttempts,

		Seed:   s.seed,
		Seeded: s.seeded,

		Status: s.status,

		Secret:  codeToInts(s.secret),
		Current: append([]int(nil), s.current...),
		History: historyPayload(s.history),

		AttemptsUsed: s.attemptsUsed,
		MaxAttempts:  s.maxAttempts,
		BonusGranted: s.bonusGranted,
		Stars:        s.stars,

		OwnerID:   s.ownerID,
		OwnerName: s.ownerName,
	}
}

func (s *Session) restoreLocked(snap SessionSnapshot) {
	s.diff = puzzle.Difficulty{
		Name:            snap.DifficultyName,
		CodeLength:      snap.CodeLength,
		ColorCount:      snap.ColorCount,
		AllowDuplicates: snap.AllowDuplicates,
		MaxAttempts:     snap.BaseAttempts,
	}

	s.seed = snap.Seed
	s.seeded = snap.Seeded
	if snap.Seeded {
		s.rng = rand.New(rand.NewSource(snap.Seed))
	} else {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s.status = snap.Status

	s.secret = intsToCode(snap.Secret)
	s.current = append([]int(nil), snap.Current...)
	s.history = historyFromItems(snap.History)

	s.attemptsUsed = snap.AttemptsUsed
	s.maxAttempts = snap.MaxAttempts
	s.bonusGranted = snap.BonusGranted
	s.stars = snap.Stars

	s.ownerID = snap.OwnerID
	s.ownerName = snap.OwnerName
}
