package solver

import (
	"fmt"

	"example.com/mastermind/internal/puzzle"
)

// Hint is what the player sees when they ask for help.
type Hint struct {
	Guess                 puzzle.Code `json:"guess"`
	Remaining             int         `json:"remaining"`
	GuaranteedElimination int         `json:"guaranteedElimination"`
	Optimal               bool        `json:"optimal"`
	Reasoning             string      `json:"reasoning"`
}

// Rating grades a played guess against the minimax choice at the same point.
type Rating string

const (
	RatingOptimal    Rating = "optimal"
	RatingGood       Rating = "good"
	RatingAcceptable Rating = "acceptable"
	RatingSuboptimal Rating = "suboptimal"
	RatingPoor       Rating = "poor"
)

// Analysis compares a played guess with the optimal one at the same point in
// the game. It is derived on demand and never persisted.
type Analysis struct {
	Rating           Rating      `json:"rating"`
	OptimalGuess     puzzle.Code `json:"optimalGuess"`
	OptimalWorstCase int         `json:"optimalWorstCase"`
	PlayedWorstCase  int         `json:"playedWorstCase"`
	RemainingBefore  int         `json:"remainingBefore"`
	RemainingAfter   int         `json:"remainingAfter"`
	// OptimalRemainingAfter estimates what the optimal guess would have
	// left by scoring it against the played guess as if that were the
	// secret. An estimate, not a verified quantity.
	OptimalRemainingAfter int `json:"optimalRemainingAfter"`
}

// HintService wraps a Solver with history replay and player-facing wording.
// Every call rebuilds the remaining set from the immutable history, so
// concurrent requests share no mutable state.
type HintService struct {
	solver *Solver
}

func NewHintService(s *Solver) *HintService {
	return &HintService{solver: s}
}

// Solver exposes the wrapped solver.
func (h *HintService) Solver() *Solver { return h.solver }

// Hint replays the history over the full code space and suggests the next
// guess. A history consistent with nothing returns ErrNoCandidates.
func (h *HintService) Hint(history []puzzle.GuessResult) (Hint, error) {
	remaining, err := puzzle.Replay(h.solver.All(), history)
	if err != nil {
		return Hint{}, err
	}
	if len(remaining) == 0 {
		return Hint{}, ErrNoCandidates
	}

	if len(remaining) == 1 {
		g := remaining[0]
		return Hint{
			Guess:     g,
			Remaining: 1,
			Optimal:   true,
			Reasoning: fmt.Sprintf("%s is the only code consistent with your feedback: it must be the answer.", g),
		}, nil
	}

	if len(history) == 0 {
		g := h.solver.OpeningGuess()
		worst := h.solver.worstCase(g, remaining)
		return Hint{
			Guess:                 g,
			Remaining:             len(remaining),
			GuaranteedElimination: len(remaining) - worst,
			Optimal:               true,
			Reasoning:             fmt.Sprintf("Standard opening: two colors in halves split the %d possible codes most evenly.", len(remaining)),
		}, nil
	}

	ev, err := h.solver.BestGuess(remaining)
	if err != nil {
		return Hint{}, err
	}

	hint := Hint{
		Guess:                 ev.Guess,
		Remaining:             len(remaining),
		GuaranteedElimination: ev.GuaranteedElimination,
		Optimal:               h.solver.Exhaustive() || len(remaining) <= 2,
	}
	if ev.InRemaining {
		hint.Reasoning = fmt.Sprintf("%s could be the answer: it is one of %d codes that still fit, and any feedback rules out at least %d of them.",
			ev.Guess, len(remaining), ev.GuaranteedElimination)
	} else {
		hint.Reasoning = fmt.Sprintf("%s cannot be the answer itself, but it splits the %d remaining codes most evenly, eliminating at least %d whatever the feedback.",
			ev.Guess, len(remaining), ev.GuaranteedElimination)
	}
	return hint, nil
}

// Analyze grades a guess the player already made. The history passed in must
// contain only the entries recorded before that guess.
func (h *HintService) Analyze(guess puzzle.Code, fb puzzle.Feedback, before []puzzle.GuessResult) (Analysis, error) {
	remaining, err := puzzle.Replay(h.solver.All(), before)
	if err != nil {
		return Analysis{}, err
	}
	if len(remaining) == 0 {
		return Analysis{}, ErrNoCandidates
	}

	ev, err := h.solver.BestGuess(remaining)
	if err != nil {
		return Analysis{}, err
	}

	playedWorst := h.solver.worstCase(guess, remaining)

	after, err := puzzle.Filter(remaining, guess, fb)
	if err != nil {
		return Analysis{}, err
	}

	// what the optimal guess "would have left" pretends the played guess
	// was the secret
	optFB, err := puzzle.Score(ev.Guess, guess)
	if err != nil {
		return Analysis{}, err
	}
	optAfter, err := puzzle.Filter(remaining, ev.Guess, optFB)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		Rating:                rateGuess(guess, ev.Guess, playedWorst, ev.WorstCase),
		OptimalGuess:          ev.Guess,
		OptimalWorstCase:      ev.WorstCase,
		PlayedWorstCase:       playedWorst,
		RemainingBefore:       len(remaining),
		RemainingAfter:        len(after),
		OptimalRemainingAfter: len(optAfter),
	}, nil
}

func rateGuess(played, optimal puzzle.Code, playedWorst, optimalWorst int) Rating {
	switch {
	case played.Equal(optimal) || playedWorst <= optimalWorst:
		return RatingOptimal
	case playedWorst <= optimalWorst+1:
		return RatingGood
	case playedWorst <= optimalWorst+3:
		return RatingAcceptable
	case playedWorst <= optimalWorst+5:
		return RatingSuboptimal
	default:
		return RatingPoor
	}
}
