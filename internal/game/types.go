package game

import (
	"encoding/json"

	"example.com/mastermind/internal/puzzle"
	"example.com/mastermind/internal/solver"
)

// Envelope WS envelope: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AuthPayload входящие
type AuthPayload struct {
	Token string `json:"token"`
}

type SetSlotPayload struct {
	Index  int `json:"index"`
	Symbol int `json:"symbol"`
}

type ClearSlotPayload struct {
	Index int `json:"index"`
}

// AnalyzePayload: index хода в истории; nil — последний ход
type AnalyzePayload struct {
	Index *int `json:"index"`
}

// HistoryItem исходящие
type HistoryItem struct {
	Guess []int `json:"guess"`
	Black int   `json:"black"`
	White int   `json:"white"`
}

type DifficultyPayload struct {
	Name            string   `json:"name"`
	CodeLength      int      `json:"codeLength"`
	ColorCount      int      `json:"colorCount"`
	AllowDuplicates bool     `json:"allowDuplicates"`
	MaxAttempts     int      `json:"maxAttempts"`
	Colors          []string `json:"colors"`
}

type StatePayload struct {
	SessionID      string            `json:"sessionId"`
	PlayerName     string            `json:"playerName,omitempty"`
	Difficulty     DifficultyPayload `json:"difficulty"`
	Status         string            `json:"status"` // playing|won|lost|paused
	AttemptsUsed   int               `json:"attemptsUsed"`
	MaxAttempts    int               `json:"maxAttempts"`
	BonusGranted   bool              `json:"bonusGranted"`
	Stars          int               `json:"stars"`
	Current        []int             `json:"current"` // -1 = пустой слот
	History        []HistoryItem     `json:"history"`
	RevealedSecret []int             `json:"revealedSecret,omitempty"` // только после won/lost
}

type GuessResultPayload struct {
	Guess        []int  `json:"guess"`
	Black        int    `json:"black"`
	White        int    `json:"white"`
	AttemptsUsed int    `json:"attemptsUsed"`
	Status       string `json:"status"`
}

type GameFinishedPayload struct {
	Status   string `json:"status"` // won|lost
	Stars    int    `json:"stars"`
	Attempts int    `json:"attempts"`
	Secret   []int  `json:"secret"`
}

type HintPayload struct {
	Guess                 []int  `json:"guess"`
	Remaining             int    `json:"remaining"`
	GuaranteedElimination int    `json:"guaranteedElimination"`
	Optimal               bool   `json:"optimal"`
	Reasoning             string `json:"reasoning"`
}

type AnalysisPayload struct {
	Index                 int    `json:"index"`
	Rating                string `json:"rating"`
	OptimalGuess          []int  `json:"optimalGuess"`
	OptimalWorstCase      int    `json:"optimalWorstCase"`
	PlayedWorstCase       int    `json:"playedWorstCase"`
	RemainingBefore       int    `json:"remainingBefore"`
	RemainingAfter        int    `json:"remainingAfter"`
	OptimalRemainingAfter int    `json:"optimalRemainingAfter"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func codeToInts(c puzzle.Code) []int {
	out := make([]int, len(c))
	for i, s := range c {
		out[i] = int(s)
	}
	return out
}

func intsToCode(v []int) puzzle.Code {
	out := make(puzzle.Code, len(v))
	for i, s := range v {
		out[i] = puzzle.Symbol(s)
	}
	return out
}

func historyPayload(h []puzzle.GuessResult) []HistoryItem {
	out := make([]HistoryItem, 0, len(h))
	for _, r := range h {
		out = append(out, HistoryItem{
			Guess: codeToInts(r.Guess),
			Black: r.Feedback.Black,
			White: r.Feedback.White,
		})
	}
	return out
}

func historyFromItems(items []HistoryItem) []puzzle.GuessResult {
	out := make([]puzzle.GuessResult, 0, len(items))
	for _, it := range items {
		out = append(out, puzzle.GuessResult{
			Guess:    intsToCode(it.Guess),
			Feedback: puzzle.Feedback{Black: it.Black, White: it.White},
		})
	}
	return out
}

func difficultyPayload(d puzzle.Difficulty) DifficultyPayload {
	return DifficultyPayload{
		Name:            d.Name,
		CodeLength:      d.CodeLength,
		ColorCount:      d.ColorCount,
		AllowDuplicates: d.AllowDuplicates,
		MaxAttempts:     d.MaxAttempts,
		Colors:          d.Colors(),
	}
}

func hintPayload(h solver.Hint) HintPayload {
	return HintPayload{
		Guess:                 codeToInts(h.Guess),
		Remaining:             h.Remaining,
		GuaranteedElimination: h.GuaranteedElimination,
		Optimal:               h.Optimal,
		Reasoning:             h.Reasoning,
	}
}

func analysisPayload(index int, a solver.Analysis) AnalysisPayload {
	return AnalysisPayload{
		Index:                 index,
		Rating:                string(a.Rating),
		OptimalGuess:          codeToInts(a.OptimalGuess),
		OptimalWorstCase:      a.OptimalWorstCase,
		PlayedWorstCase:       a.PlayedWorstCase,
		RemainingBefore:       a.RemainingBefore,
		RemainingAfter:        a.RemainingAfter,
		OptimalRemainingAfter: a.OptimalRemainingAfter,
	}
}
