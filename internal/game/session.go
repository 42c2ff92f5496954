package game

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"example.com/mastermind/internal/puzzle"
)

const (
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
	StatusPaused  = "paused"
)

// emptySlot помечает ещё не заполненную позицию текущей догадки.
const emptySlot = -1

var (
	ErrNotPlaying       = errors.New("game is not in playing state")
	ErrNotPaused        = errors.New("game is not paused")
	ErrIncompleteGuess  = errors.New("guess has empty slots")
	ErrSecretHidden     = errors.New("secret is revealed only after the game ends")
	ErrBonusUnavailable = errors.New("bonus life is available only once after a loss")
	ErrSlotOutOfRange   = errors.New("slot index out of range")
	ErrSymbolOutOfRange = errors.New("symbol out of palette range")
)

type Session struct {
	id string
	mu sync.Mutex

	diff puzzle.Difficulty

	seed   int64
	seeded bool
	rng    *rand.Rand

	status string // playing|won|lost|paused

	secret  puzzle.Code
	current []int // -1 = пустой слот
	history []puzzle.GuessResult

	attemptsUsed int
	maxAttempts  int
	bonusGranted bool
	stars        int

	ownerID   string
	ownerName string
	conn      *ClientConn

	onPersist func(SessionSnapshot)
}

// NewSession draws a secret and starts in playing state. A seeded session
// reproduces the same secret on every restart, which is what daily and
// numbered-level puzzles rely on.
func NewSession(id string, d puzzle.Difficulty, seed int64, seeded bool) (*Session, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:          id,
		diff:        d,
		seed:        seed,
		seeded:      seeded,
		status:      StatusPlaying,
		current:     emptyGuess(d.CodeLength),
		maxAttempts: d.MaxAttempts,
	}
	if seeded {
		s.rng = rand.New(rand.NewSource(seed))
	} else {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.secret = drawSecret(s.rng, d)
	return s, nil
}

func emptyGuess(n int) []int {
	g := make([]int, n)
	for i := range g {
		g[i] = emptySlot
	}
	return g
}

func drawSecret(rng *rand.Rand, d puzzle.Difficulty) puzzle.Code {
	code := make(puzzle.Code, d.CodeLength)
	if d.AllowDuplicates {
		for i := range code {
			code[i] = puzzle.Symbol(rng.Intn(d.ColorCount))
		}
		return code
	}
	perm := rng.Perm(d.ColorCount)
	for i := range code {
		code[i] = puzzle.Symbol(perm[i])
	}
	return code
}

// Attach binds a connection to the session. The first player to attach
// becomes the owner; only the owner may reconnect later.
func (s *Session) Attach(userID, displayName string, cc *ClientConn) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// реконнект владельца?
	if s.ownerID == userID && s.ownerID != "" {
		s.conn = cc
		s.ownerName = displayName
		return "", ""
	}

	if s.ownerID == "" {
		s.ownerID = userID
		s.ownerName = displayName
		s.conn = cc
		s.persistLocked()
		return "", ""
	}

	return "session_owned", "session belongs to another player"
}

func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = nil
}

func (s *Session) SetSymbol(at, symbol int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		return ErrNotPlaying
	}
	if at < 0 || at >= len(s.current) {
		return ErrSlotOutOfRange
	}
	if symbol < 0 || symbol >= s.diff.ColorCount {
		return ErrSymbolOutOfRange
	}

	s.current[at] = symbol
	s.sendStateLocked()
	s.persistLocked()
	return nil
}

func (s *Session) ClearSlot(at int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		return ErrNotPlaying
	}
	if at < 0 || at >= len(s.current) {
		return ErrSlotOutOfRange
	}

	s.current[at] = emptySlot
	s.sendStateLocked()
	s.persistLocked()
	return nil
}

func (s *Session) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		return ErrNotPlaying
	}

	s.current = emptyGuess(len(s.current))
	s.sendStateLocked()
	s.persistLocked()
	return nil
}

// SubmitGuess scores the current guess against the secret. Valid only in
// playing state with every slot filled.
func (s *Session) SubmitGuess() (puzzle.GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		return puzzle.GuessResult{}, ErrNotPlaying
	}

	guess := make(puzzle.Code, len(s.current))
	for i, v := range s.current {
		if v == emptySlot {
			return puzzle.GuessResult{}, ErrIncompleteGuess
		}
		guess[i] = puzzle.Symbol(v)
	}

	fb, err := puzzle.Score(guess, s.secret)
	if err != nil {
		return puzzle.GuessResult{}, err
	}

	res := puzzle.GuessResult{Guess: guess, Feedback: fb}
	s.history = append(s.history, res)
	s.attemptsUsed++
	s.current = emptyGuess(len(s.current))

	switch {
	case fb.Black == s.diff.CodeLength:
		s.status = StatusWon
		s.stars = rate(s.attemptsUsed, s.maxAttempts)
	case s.attemptsUsed >= s.maxAttempts:
		s.status = StatusLost
	}

	s.sendLocked(Envelope{Type: "guess_result", Payload: mustJSON(GuessResultPayload{
		Guess:        codeToInts(guess),
		Black:        fb.Black,
		White:        fb.White,
		AttemptsUsed: s.attemptsUsed,
		Status:       s.status,
	})})

	if s.status == StatusWon || s.status == StatusLost {
		s.sendLocked(Envelope{Type: "game_finished", Payload: mustJSON(GameFinishedPayload{
			Status:   s.status,
			Stars:    s.stars,
			Attempts: s.attemptsUsed,
			Secret:   codeToInts(s.secret),
		})})
	}

	s.sendStateLocked()
	s.persistLocked()
	return res, nil
}

// rate переводит попытки в звёзды: ≤40% бюджета — 3, ≤70% — 2, иначе 1.
func rate(attempts, maxAttempts int) int {
	switch {
	case attempts*10 <= maxAttempts*4:
		return 3
	case attempts*10 <= maxAttempts*7:
		return 2
	default:
		return 1
	}
}

// GrantBonusLife reopens a lost game once: one extra attempt, history kept.
// The caller confirms the reward before invoking this.
func (s *Session) GrantBonusLife() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusLost || s.bonusGranted {
		return ErrBonusUnavailable
	}

	s.bonusGranted = true
	s.maxAttempts++
	s.status = StatusPlaying
	s.current = emptyGuess(len(s.current))

	s.sendStateLocked()
	s.persistLocked()
	return nil
}

// Restart redraws the secret and resets all progress. A seeded session gets
// the same secret again.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seeded {
		// тот же seed — тот же секрет
		s.rng = rand.New(rand.NewSource(s.seed))
	}
	s.secret = drawSecret(s.rng, s.diff)

	s.status = StatusPlaying
	s.history = nil
	s.attemptsUsed = 0
	s.maxAttempts = s.diff.MaxAttempts
	s.bonusGranted = false
	s.stars = 0
	s.current = emptyGuess(len(s.current))

	s.sendStateLocked()
	s.persistLocked()
}

func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPlaying {
		return ErrNotPlaying
	}
	s.status = StatusPaused

	s.sendStateLocked()
	s.persistLocked()
	return nil
}

func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusPaused {
		return ErrNotPaused
	}
	s.status = StatusPlaying

	s.sendStateLocked()
	s.persistLocked()
	return nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Difficulty() puzzle.Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diff
}

func (s *Session) AttemptsUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attemptsUsed
}

func (s *Session) Stars() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stars
}

// History returns a copy of the guess history.
func (s *Session) History() []puzzle.GuessResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]puzzle.GuessResult(nil), s.history...)
}

// Secret is revealed only once the game is over.
func (s *Session) Secret() (puzzle.Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWon && s.status != StatusLost {
		return nil, ErrSecretHidden
	}
	return s.secret.Clone(), nil
}

func (s *Session) Send(env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendLocked(env)
}

func (s *Session) SendError(code, message string) {
	s.Send(Envelope{
		Type:    "error",
		Payload: mustJSON(ErrorPayload{Code: code, Message: message}),
	})
}

func (s *Session) SendState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendStateLocked()
}

func (s *Session) sendStateLocked() {
	s.sendLocked(Envelope{Type: "state", Payload: mustJSON(s.buildStateLocked())})
}

func (s *Session) buildStateLocked() StatePayload {
	st := StatePayload{
		SessionID:    s.id,
		PlayerName:   s.ownerName,
		Difficulty:   difficultyPayload(s.diff),
		Status:       s.status,
		AttemptsUsed: s.attemptsUsed,
		MaxAttempts:  s.maxAttempts,
		BonusGranted: s.bonusGranted,
		Stars:        s.stars,
		Current:      append([]int(nil), s.current...),
		History:      historyPayload(s.history),
	}
	if s.status == StatusWon || s.status == StatusLost {
		st.RevealedSecret = codeToInts(s.secret)
	}
	return st
}

func (s *Session) sendLocked(env Envelope) {
	if s.conn == nil {
		return
	}
	b, _ := json.Marshal(env)
	select {
	case s.conn.send <- b:
	default:
		// клиент не успевает читать — дропаем
	}
}

func (s *Session) persistLocked() {
	if s.onPersist == nil {
		return
	}
	s.onPersist(s.snapshotLocked())
}
