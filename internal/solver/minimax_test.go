package solver

import (
	"testing"

	"example.com/mastermind/internal/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyDifficulty() puzzle.Difficulty {
	return puzzle.Difficulty{
		Name:            "tiny",
		CodeLength:      2,
		ColorCount:      2,
		AllowDuplicates: true,
		MaxAttempts:     10,
	}
}

func TestBestGuess_BruteForceOptimal(t *testing.T) {
	s, err := New(tinyDifficulty(), 1)
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 4)

	ev, err := s.BestGuess(all)
	require.NoError(t, err)

	// brute force the true minimum worst case over every possible guess
	bruteBest := len(all) + 1
	for _, g := range all {
		if w := s.worstCase(g, all); w < bruteBest {
			bruteBest = w
		}
	}

	assert.Equal(t, bruteBest, ev.WorstCase)
	assert.Equal(t, len(all)-bruteBest, ev.GuaranteedElimination)
	assert.True(t, ev.InRemaining)
}

func TestBestGuess_EmptyRemaining(t *testing.T) {
	s, err := New(tinyDifficulty(), 1)
	require.NoError(t, err)

	_, err = s.BestGuess(nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestBestGuess_OneOrTwoLeft(t *testing.T) {
	d, _ := puzzle.TierByName("easy")
	s, err := New(d, 1)
	require.NoError(t, err)

	one := []puzzle.Code{s.All()[7]}
	ev, err := s.BestGuess(one)
	require.NoError(t, err)
	assert.True(t, ev.Guess.Equal(one[0]))
	assert.Equal(t, 1, ev.WorstCase)
	assert.Equal(t, 0, ev.GuaranteedElimination)
	assert.True(t, ev.InRemaining)

	two := []puzzle.Code{s.All()[3], s.All()[40]}
	ev, err = s.BestGuess(two)
	require.NoError(t, err)
	assert.True(t, ev.Guess.Equal(two[0]))
	assert.Equal(t, 1, ev.WorstCase)
	assert.Equal(t, 1, ev.GuaranteedElimination)
}

func TestBestGuess_SolvesEveryEasySecret(t *testing.T) {
	d, _ := puzzle.TierByName("easy")
	s, err := New(d, 1)
	require.NoError(t, err)

	all := s.All()
	for _, secret := range all {
		remaining := all
		solved := false
		for attempt := 1; attempt <= d.MaxAttempts; attempt++ {
			ev, err := s.BestGuess(remaining)
			require.NoError(t, err)

			fb, err := puzzle.Score(ev.Guess, secret)
			require.NoError(t, err)
			if fb.Black == d.CodeLength {
				solved = true
				break
			}

			remaining, err = puzzle.Filter(remaining, ev.Guess, fb)
			require.NoError(t, err)
			require.NotEmpty(t, remaining, "secret %v filtered out", secret)
		}
		require.True(t, solved, "secret %v not found within %d attempts", secret, d.MaxAttempts)
	}
}

func TestOpeningGuess_HalfSplitPattern(t *testing.T) {
	classic, _ := puzzle.TierByName("classic")
	s, err := New(classic, 1)
	require.NoError(t, err)
	assert.True(t, s.OpeningGuess().Equal(puzzle.Code{0, 0, 1, 1}))

	expert, _ := puzzle.TierByName("expert")
	s, err = New(expert, 1)
	require.NoError(t, err)
	assert.True(t, s.OpeningGuess().Equal(puzzle.Code{0, 0, 1, 1, 1}))
}

func TestSampledCandidates_Deterministic(t *testing.T) {
	d, _ := puzzle.TierByName("master")

	s1, err := New(d, 42)
	require.NoError(t, err)
	s2, err := New(d, 42)
	require.NoError(t, err)

	assert.False(t, s1.Exhaustive())
	require.Len(t, s1.sample, sampleSize)

	remaining := s1.All()[:40]
	ev1, err := s1.BestGuess(remaining)
	require.NoError(t, err)
	ev2, err := s2.BestGuess(remaining)
	require.NoError(t, err)

	assert.True(t, ev1.Guess.Equal(ev2.Guess))
	assert.Equal(t, ev1.WorstCase, ev2.WorstCase)
}

func TestCandidates_RemainingFirstNoDuplicates(t *testing.T) {
	d, _ := puzzle.TierByName("master")
	s, err := New(d, 7)
	require.NoError(t, err)

	remaining := s.All()[100:130]
	cands := s.candidates(remaining)

	require.GreaterOrEqual(t, len(cands), len(remaining))
	assert.LessOrEqual(t, len(cands), len(remaining)+sampleSize)

	for i, c := range remaining {
		assert.True(t, cands[i].Equal(c), "remaining code %d not at front", i)
	}

	seen := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		key := c.Key()
		_, dup := seen[key]
		require.False(t, dup, "duplicate candidate %v", c)
		seen[key] = struct{}{}
	}
}

func TestExhaustive_PerTier(t *testing.T) {
	for _, tc := range []struct {
		tier string
		want bool
	}{
		{tier: "beginner", want: true},
		{tier: "easy", want: true},
		{tier: "classic", want: false},
		{tier: "master", want: false},
	} {
		d, ok := puzzle.TierByName(tc.tier)
		require.True(t, ok)
		s, err := New(d, 1)
		require.NoError(t, err)
		assert.Equal(t, tc.want, s.Exhaustive(), tc.tier)
	}
}
