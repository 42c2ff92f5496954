package game

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"example.com/mastermind/internal/auth"
	"example.com/mastermind/internal/daily"
	"example.com/mastermind/internal/puzzle"
	"example.com/mastermind/internal/solver"
)

type Config struct {
	DefaultDifficulty string
	DailySalt         string
}

// TokenVerifier проверяет JWT и возвращает claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ResultRecorder принимает результаты завершённых игр.
type ResultRecorder interface {
	RecordWin(ctx context.Context, userID string, stars, attempts int) error
	RecordLoss(ctx context.Context, userID string) error
}

type Server struct {
	cfg      Config
	sessions *SessionService
	verifier TokenVerifier
	solvers  *solver.Registry
	results  ResultRecorder

	busy inflight
}

func NewServer(cfg Config, sessions *SessionService, verifier TokenVerifier, solvers *solver.Registry, results ResultRecorder) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		verifier: verifier,
		solvers:  solvers,
		results:  results,
	}
}

// inflight не даёт запустить второй расчёт подсказки для той же сессии,
// пока первый не закончился.
type inflight struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func (f *inflight) begin(sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ids == nil {
		f.ids = make(map[string]struct{})
	}
	if _, ok := f.ids[sessionID]; ok {
		return false
	}
	f.ids[sessionID] = struct{}{}
	return true
}

func (f *inflight) end(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ids, sessionID)
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/sessions", s.handleCreateSession)
	mux.HandleFunc("/api/difficulties", s.handleDifficulties)
	mux.HandleFunc("/ws/", s.handleWS)
}

type createSessionRequest struct {
	Difficulty string `json:"difficulty"`
	Daily      bool   `json:"daily"`
	LevelID    int64  `json:"levelId"`
	Seed       *int64 `json:"seed"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	name := req.Difficulty
	if name == "" {
		name = s.cfg.DefaultDifficulty
	}
	d, ok := puzzle.TierByName(name)
	if !ok {
		http.Error(w, "unknown difficulty", http.StatusBadRequest)
		return
	}

	var seed int64
	seeded := false
	switch {
	case req.Seed != nil:
		seed, seeded = *req.Seed, true
	case req.Daily:
		seed, seeded = daily.SeedForDate(s.cfg.DailySalt, time.Now()), true
	case req.LevelID > 0:
		seed, seeded = daily.LevelSeed(req.LevelID), true
	}

	sessionID := randID(10)
	if _, err := s.sessions.Create(r.Context(), sessionID, d, seed, seeded); err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	sessionsCreated.WithLabelValues(d.Name).Inc()

	writeJSON(w, http.StatusOK, map[string]string{
		"sessionId":  sessionID,
		"difficulty": d.Name,
	})
}

func (s *Server) handleDifficulties(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	tiers := puzzle.Tiers()
	out := make([]DifficultyPayload, 0, len(tiers))
	for _, d := range tiers {
		out = append(out, difficultyPayload(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func randID(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
