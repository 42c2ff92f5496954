package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"example.com/mastermind/internal/auth"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // фронт ходит с другого origin
}

type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.ws.Close()
	})
}

// sessionIDFromWSPath достаёт id из "/ws/<sessionId>".
// id: [a-z0-9]{1,64}
func sessionIDFromWSPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/ws/")
	if !ok || rest == "" {
		return "", false
	}
	if strings.ContainsRune(rest, '/') {
		return "", false
	}
	if len(rest) > 64 {
		return "", false
	}
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return "", false
		}
	}
	return rest, true
}

// handleWS — WebSocket вход в сессию: /ws/<sessionId>
// 🔐 JWT: либо заголовок Authorization: Bearer, либо первое сообщение
// {"type":"auth"} (браузерный WebSocket не умеет ставить заголовки).
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromWSPath(r.URL.Path)
	if !ok {
		http.Error(w, "missing or invalid session id", http.StatusBadRequest)
		return
	}

	var claims *auth.Claims
	if h := r.Header.Get("Authorization"); h != "" {
		c, err := s.verifier.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		claims = c
	}

	// получаем сессию (in-memory или из Redis)
	sess, found, err := s.sessions.GetOrLoad(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	if claims == nil {
		claims = awaitAuthMessage(ws, s.verifier)
		if claims == nil {
			_ = ws.WriteJSON(Envelope{
				Type:    "error",
				Payload: mustJSON(ErrorPayload{Code: "unauthorized", Message: "auth required"}),
			})
			_ = ws.Close()
			return
		}
	}

	cc := &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}

	if errCode, errMsg := sess.Attach(claims.UserID, claims.DisplayName, cc); errCode != "" {
		_ = ws.WriteJSON(Envelope{
			Type:    "error",
			Payload: mustJSON(ErrorPayload{Code: errCode, Message: errMsg}),
		})
		cc.Close()
		return
	}

	// writer loop
	go func() {
		ticker := time.NewTicker(25 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-cc.send:
				if !ok {
					return
				}
				_ = ws.WriteMessage(websocket.TextMessage, msg)
			case <-ticker.C:
				_ = ws.WriteMessage(websocket.PingMessage, []byte{})
			}
		}
	}()

	// initial state
	sess.SendState()

	s.readLoop(r.Context(), ws, sess, claims)

	// disconnect
	sess.Detach()
	cc.Close()
}

// awaitAuthMessage ждёт {"type":"auth","payload":{"token":"..."}} первым
// сообщением. Остальные типы до авторизации игнорируются.
func awaitAuthMessage(ws *websocket.Conn, verifier TokenVerifier) *auth.Claims {
	_ = ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer func() { _ = ws.SetReadDeadline(time.Time{}) }()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return nil
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		if env.Type != "auth" {
			continue
		}

		var p AuthPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil
		}
		claims, err := verifier.Verify(p.Token)
		if err != nil {
			return nil
		}
		return claims
	}
}

func (s *Server) readLoop(ctx context.Context, ws *websocket.Conn, sess *Session, claims *auth.Claims) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			sess.SendError("bad_json", "invalid json")
			continue
		}

		switch env.Type {
		case "auth":
			// уже авторизованы

		case "set_slot":
			var p SetSlotPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				sess.SendError("bad_input", "invalid payload")
				continue
			}
			if err := sess.SetSymbol(p.Index, p.Symbol); err != nil {
				sess.SendError("bad_input", err.Error())
			}

		case "clear_slot":
			var p ClearSlotPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				sess.SendError("bad_input", "invalid payload")
				continue
			}
			if err := sess.ClearSlot(p.Index); err != nil {
				sess.SendError("bad_input", err.Error())
			}

		case "clear_all":
			if err := sess.ClearAll(); err != nil {
				sess.SendError("bad_input", err.Error())
			}

		case "submit_guess":
			s.handleSubmit(ctx, sess, claims)

		case "hint":
			s.handleHint(ctx, sess)

		case "analyze":
			var p AnalyzePayload
			if len(env.Payload) > 0 {
				if err := json.Unmarshal(env.Payload, &p); err != nil {
					sess.SendError("bad_input", "invalid payload")
					continue
				}
			}
			s.handleAnalyze(ctx, sess, p.Index)

		case "grant_bonus":
			if err := sess.GrantBonusLife(); err != nil {
				sess.SendError("bad_input", err.Error())
			}

		case "restart":
			sess.Restart()

		case "pause":
			if err := sess.Pause(); err != nil {
				sess.SendError("bad_input", err.Error())
			}

		case "resume":
			if err := sess.Resume(); err != nil {
				sess.SendError("bad_input", err.Error())
			}

		default:
			sess.SendError("unknown_type", "unknown message type")
		}
	}
}

func (s *Server) handleSubmit(ctx context.Context, sess *Session, claims *auth.Claims) {
	if _, err := sess.SubmitGuess(); err != nil {
		code := "bad_input"
		if errors.Is(err, ErrIncompleteGuess) {
			code = "incomplete_guess"
		}
		sess.SendError(code, err.Error())
		return
	}

	d := sess.Difficulty()
	guessesSubmitted.WithLabelValues(d.Name).Inc()

	switch sess.Status() {
	case StatusWon:
		gamesFinished.WithLabelValues(d.Name, "won").Inc()
		if s.results != nil {
			_ = s.results.RecordWin(ctx, claims.UserID, sess.Stars(), sess.AttemptsUsed())
		}
	case StatusLost:
		gamesFinished.WithLabelValues(d.Name, "lost").Inc()
		if s.results != nil {
			_ = s.results.RecordLoss(ctx, claims.UserID)
		}
	}
}

func (s *Server) handleHint(ctx context.Context, sess *Session) {
	hs, ok := s.solvers.For(sess.Difficulty().Name)
	if !ok {
		sess.SendError("hint_unavailable", "no solver for this difficulty")
		return
	}
	if sess.Status() != StatusPlaying {
		sess.SendError("bad_input", ErrNotPlaying.Error())
		return
	}
	if !s.busy.begin(sess.ID()) {
		sess.SendError("hint_busy", "hint is already being computed")
		return
	}

	hintRequests.Inc()
	started := time.Now()

	out := hs.HintAsync(ctx, s.solvers.Pool(), sess.History())
	go func() {
		res := <-out
		s.busy.end(sess.ID())
		hintDuration.Observe(time.Since(started).Seconds())

		if res.Err != nil {
			sess.SendError("hint_unavailable", "no hint available")
			return
		}
		sess.Send(Envelope{Type: "hint_result", Payload: mustJSON(hintPayload(res.Hint))})
	}()
}

func (s *Server) handleAnalyze(ctx context.Context, sess *Session, index *int) {
	hs, ok := s.solvers.For(sess.Difficulty().Name)
	if !ok {
		sess.SendError("hint_unavailable", "no solver for this difficulty")
		return
	}

	history := sess.History()
	if len(history) == 0 {
		sess.SendError("bad_input", "no guesses to analyze")
		return
	}

	idx := len(history) - 1
	if index != nil {
		idx = *index
	}
	if idx < 0 || idx >= len(history) {
		sess.SendError("bad_input", "history index out of range")
		return
	}

	if !s.busy.begin(sess.ID()) {
		sess.SendError("hint_busy", "hint is already being computed")
		return
	}

	target := history[idx]
	out := hs.AnalyzeAsync(ctx, s.solvers.Pool(), target.Guess, target.Feedback, history[:idx])
	go func() {
		res := <-out
		s.busy.end(sess.ID())

		if res.Err != nil {
			sess.SendError("hint_unavailable", "no analysis available")
			return
		}
		sess.Send(Envelope{Type: "analysis", Payload: mustJSON(analysisPayload(idx, res.Analysis))})
	}()
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
