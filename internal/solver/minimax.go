package solver

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"example.com/mastermind/internal/puzzle"
	"golang.org/x/sync/errgroup"
)

const (
	// exhaustiveLimit is the space size up to which every code is tried as
	// a candidate guess. Above it the candidate set is remaining plus a
	// fixed sample, keeping the search O(|remaining| * |candidates|).
	exhaustiveLimit = 1000
	sampleSize      = 500
)

// ErrNoCandidates means a history is consistent with no code at all. Honest
// feedback can never produce this; it signals a caller bug.
var ErrNoCandidates = errors.New("no candidate codes remain")

// Solver picks information-maximizing guesses for one difficulty. It is
// immutable after construction and safe for concurrent use.
type Solver struct {
	diff   puzzle.Difficulty
	all    []puzzle.Code
	sample []puzzle.Code // seeded fixed sample, nil when the space is small
}

// Evaluation describes one candidate guess against a remaining set.
type Evaluation struct {
	Guess puzzle.Code
	// WorstCase is the largest remaining-set size any feedback can leave.
	WorstCase int
	// GuaranteedElimination is how many codes every possible feedback is
	// guaranteed to rule out.
	GuaranteedElimination int
	// InRemaining reports whether the guess itself can still be the secret.
	InRemaining bool
}

// New enumerates the code space for the difficulty. The sample seed makes
// guess selection on large spaces reproducible.
func New(d puzzle.Difficulty, sampleSeed int64) (*Solver, error) {
	all, err := puzzle.AllCodes(d)
	if err != nil {
		return nil, fmt.Errorf("enumerate code space: %w", err)
	}

	s := &Solver{diff: d, all: all}
	if len(all) > exhaustiveLimit {
		rng := rand.New(rand.NewSource(sampleSeed))
		s.sample = make([]puzzle.Code, 0, sampleSize)
		for _, i := range rng.Perm(len(all))[:sampleSize] {
			s.sample = append(s.sample, all[i])
		}
	}
	return s, nil
}

// Difficulty returns the configuration this solver was built for.
func (s *Solver) Difficulty() puzzle.Difficulty { return s.diff }

// All returns the full code space. Callers must not mutate it.
func (s *Solver) All() []puzzle.Code { return s.all }

// Exhaustive reports whether BestGuess searches the whole space rather than
// a sampled candidate set.
func (s *Solver) Exhaustive() bool { return len(s.all) <= exhaustiveLimit }

// OpeningGuess is the canonical first guess: the first palette color across
// the first half of the code, the second across the rest. Before any
// feedback exists all codes are symmetric, so no search is needed.
func (s *Solver) OpeningGuess() puzzle.Code {
	second := puzzle.Symbol(0)
	if s.diff.ColorCount > 1 {
		second = puzzle.Symbol(1)
	}

	g := make(puzzle.Code, s.diff.CodeLength)
	half := s.diff.CodeLength / 2
	for i := range g {
		if i < half {
			g[i] = puzzle.Symbol(0)
		} else {
			g[i] = second
		}
	}
	return g
}

// BestGuess returns the candidate with the smallest worst-case partition of
// the remaining set. Ties prefer a candidate that is itself still possible,
// so a lucky guess can end the game immediately.
//
// With one or two codes left the search is pointless: the first remaining
// code wins within the worst-case bound, so it is returned directly.
func (s *Solver) BestGuess(remaining []puzzle.Code) (Evaluation, error) {
	switch len(remaining) {
	case 0:
		return Evaluation{}, ErrNoCandidates
	case 1, 2:
		g := remaining[0]
		worst := s.worstCase(g, remaining)
		return Evaluation{
			Guess:                 g,
			WorstCase:             worst,
			GuaranteedElimination: len(remaining) - worst,
			InRemaining:           true,
		}, nil
	}

	candidates := s.candidates(remaining)

	inRemaining := make(map[string]bool, len(remaining))
	for _, c := range remaining {
		inRemaining[c.Key()] = true
	}

	worst := make([]int, len(candidates))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range candidates {
		i := i
		eg.Go(func() error {
			worst[i] = s.worstCase(candidates[i], remaining)
			return nil
		})
	}
	_ = eg.Wait()

	best := 0
	for i := 1; i < len(candidates); i++ {
		switch {
		case worst[i] < worst[best]:
			best = i
		case worst[i] == worst[best] &&
			!inRemaining[candidates[best].Key()] && inRemaining[candidates[i].Key()]:
			best = i
		}
	}

	chosen := candidates[best]
	return Evaluation{
		Guess:                 chosen,
		WorstCase:             worst[best],
		GuaranteedElimination: len(remaining) - worst[best],
		InRemaining:           inRemaining[chosen.Key()],
	}, nil
}

// candidates returns the guess pool: the whole space when it is small enough
// to search exhaustively, otherwise the remaining codes plus the fixed
// sample, deduplicated. Remaining codes come first so the scan order stays
// deterministic.
func (s *Solver) candidates(remaining []puzzle.Code) []puzzle.Code {
	if s.Exhaustive() {
		return s.all
	}

	out := make([]puzzle.Code, 0, len(remaining)+len(s.sample))
	seen := make(map[string]struct{}, len(remaining)+len(s.sample))
	for _, c := range remaining {
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	for _, c := range s.sample {
		if _, ok := seen[c.Key()]; ok {
			continue
		}
		seen[c.Key()] = struct{}{}
		out = append(out, c)
	}
	return out
}

// worstCase partitions remaining by the feedback g would receive against
// each code and returns the largest partition size.
func (s *Solver) worstCase(g puzzle.Code, remaining []puzzle.Code) int {
	n := s.diff.CodeLength + 1
	buckets := make([]int, n*n)

	worst := 0
	for _, c := range remaining {
		fb, _ := puzzle.Score(g, c)
		i := fb.Black*n + fb.White
		buckets[i]++
		if buckets[i] > worst {
			worst = buckets[i]
		}
	}
	return worst
}
