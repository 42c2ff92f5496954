package puzzle

import "fmt"

// Feedback is the aggregate response to one guess: black counts exact
// position matches, white counts right-color-wrong-position matches.
// Invariant: Black+White <= codeLength, and Black == codeLength only for
// the secret itself.
type Feedback struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// GuessResult is one history entry: a played guess and its feedback.
type GuessResult struct {
	Guess    Code     `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

// Score compares a guess against a secret of the same length.
//
// Pass 1 counts exact matches and consumes those positions. Pass 2 matches
// the leftovers as multisets: each color contributes
// min(remaining guess count, remaining secret count) white pegs, so a
// repeated color is never counted twice.
func Score(guess, secret Code) (Feedback, error) {
	if len(guess) != len(secret) {
		return Feedback{}, fmt.Errorf("guess length %d does not match secret length %d", len(guess), len(secret))
	}

	n := len(guess)
	used := make([]bool, n)

	var fb Feedback
	for i := 0; i < n; i++ {
		if !guess[i].Valid() || !secret[i].Valid() {
			return Feedback{}, fmt.Errorf("symbol outside palette at position %d", i)
		}
		if guess[i] == secret[i] {
			fb.Black++
			used[i] = true
		}
	}

	// counts for remaining
	var cntG, cntS [PaletteSize]int
	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}
		cntG[guess[i]]++
		cntS[secret[i]]++
	}

	for d := 0; d < PaletteSize; d++ {
		if cntG[d] < cntS[d] {
			fb.White += cntG[d]
		} else {
			fb.White += cntS[d]
		}
	}

	return fb, nil
}
