package solver

import (
	"testing"

	"example.com/mastermind/internal/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEasyHintService(t *testing.T) *HintService {
	t.Helper()
	d, ok := puzzle.TierByName("easy")
	require.True(t, ok)
	s, err := New(d, 1)
	require.NoError(t, err)
	return NewHintService(s)
}

func TestHint_EmptyHistoryUsesOpening(t *testing.T) {
	h := newEasyHintService(t)

	hint, err := h.Hint(nil)
	require.NoError(t, err)

	assert.True(t, hint.Guess.Equal(h.Solver().OpeningGuess()))
	assert.Equal(t, 60, hint.Remaining)
	assert.True(t, hint.Optimal)
	assert.NotEmpty(t, hint.Reasoning)
}

func TestHint_SingleCandidateIsTheAnswer(t *testing.T) {
	h := newEasyHintService(t)
	secret := h.Solver().All()[17]

	fb, err := puzzle.Score(secret, secret)
	require.NoError(t, err)

	hint, err := h.Hint([]puzzle.GuessResult{{Guess: secret, Feedback: fb}})
	require.NoError(t, err)

	assert.True(t, hint.Guess.Equal(secret))
	assert.Equal(t, 1, hint.Remaining)
	assert.True(t, hint.Optimal)
	assert.Contains(t, hint.Reasoning, "must be the answer")
}

func TestHint_InconsistentHistory(t *testing.T) {
	h := newEasyHintService(t)
	g := h.Solver().All()[0]

	// the same guess cannot have produced two different feedbacks
	history := []puzzle.GuessResult{
		{Guess: g, Feedback: puzzle.Feedback{Black: 3}},
		{Guess: g, Feedback: puzzle.Feedback{Black: 0, White: 1}},
	}

	_, err := h.Hint(history)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestHint_EliminationHoldsForEverySecret(t *testing.T) {
	h := newEasyHintService(t)
	secret := h.Solver().All()[33]

	opening := h.Solver().OpeningGuess()
	fb, err := puzzle.Score(opening, secret)
	require.NoError(t, err)
	history := []puzzle.GuessResult{{Guess: opening, Feedback: fb}}

	remaining, err := puzzle.Replay(h.Solver().All(), history)
	require.NoError(t, err)
	require.Greater(t, len(remaining), 2)

	hint, err := h.Hint(history)
	require.NoError(t, err)

	assert.Equal(t, len(remaining), hint.Remaining)
	assert.True(t, hint.Optimal)
	assert.NotEmpty(t, hint.Reasoning)

	// whatever the real secret, the suggested guess eliminates at least
	// the promised number of codes
	for _, s := range remaining {
		got, err := puzzle.Score(hint.Guess, s)
		require.NoError(t, err)
		left, err := puzzle.Filter(remaining, hint.Guess, got)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(left), len(remaining)-hint.GuaranteedElimination)
	}
}

func TestAnalyze_PlayingTheMinimaxChoiceRatesOptimal(t *testing.T) {
	h := newEasyHintService(t)

	ev, err := h.Solver().BestGuess(h.Solver().All())
	require.NoError(t, err)

	secret := h.Solver().All()[42]
	fb, err := puzzle.Score(ev.Guess, secret)
	require.NoError(t, err)

	a, err := h.Analyze(ev.Guess, fb, nil)
	require.NoError(t, err)

	assert.Equal(t, RatingOptimal, a.Rating)
	assert.True(t, a.OptimalGuess.Equal(ev.Guess))
	assert.Equal(t, ev.WorstCase, a.PlayedWorstCase)
	assert.Equal(t, 60, a.RemainingBefore)
	assert.LessOrEqual(t, a.RemainingAfter, a.PlayedWorstCase)
}

func TestAnalyze_MonochromeOpeningRatesPoor(t *testing.T) {
	d, ok := puzzle.TierByName("beginner")
	require.True(t, ok)
	s, err := New(d, 1)
	require.NoError(t, err)
	h := NewHintService(s)

	// one color everywhere leaves 18 of 24 codes in the worst case
	played := puzzle.Code{0, 0, 0}
	secret := s.All()[11]
	fb, err := puzzle.Score(played, secret)
	require.NoError(t, err)

	a, err := h.Analyze(played, fb, nil)
	require.NoError(t, err)

	assert.Equal(t, 18, a.PlayedWorstCase)
	assert.LessOrEqual(t, a.OptimalWorstCase, 9)
	assert.Equal(t, RatingPoor, a.Rating)
}

func TestAnalyze_InconsistentHistory(t *testing.T) {
	h := newEasyHintService(t)
	g := h.Solver().All()[0]

	history := []puzzle.GuessResult{
		{Guess: g, Feedback: puzzle.Feedback{Black: 3}},
		{Guess: g, Feedback: puzzle.Feedback{White: 2}},
	}

	_, err := h.Analyze(g, puzzle.Feedback{}, history)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestRateGuess_Boundaries(t *testing.T) {
	played := puzzle.Code{0, 1}
	optimal := puzzle.Code{1, 0}

	for _, tc := range []struct {
		name         string
		playedWorst  int
		optimalWorst int
		want         Rating
	}{
		{name: "beats_optimal", playedWorst: 4, optimalWorst: 5, want: RatingOptimal},
		{name: "matches_optimal", playedWorst: 5, optimalWorst: 5, want: RatingOptimal},
		{name: "one_over", playedWorst: 6, optimalWorst: 5, want: RatingGood},
		{name: "two_over", playedWorst: 7, optimalWorst: 5, want: RatingAcceptable},
		{name: "three_over", playedWorst: 8, optimalWorst: 5, want: RatingAcceptable},
		{name: "four_over", playedWorst: 9, optimalWorst: 5, want: RatingSuboptimal},
		{name: "five_over", playedWorst: 10, optimalWorst: 5, want: RatingSuboptimal},
		{name: "six_over", playedWorst: 11, optimalWorst: 5, want: RatingPoor},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rateGuess(played, optimal, tc.playedWorst, tc.optimalWorst))
		})
	}

	// the exact minimax code is optimal no matter the numbers
	assert.Equal(t, RatingOptimal, rateGuess(played, played, 100, 5))
}
