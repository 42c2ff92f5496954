package puzzle

// Filter returns the subset of codes that would have produced the given
// feedback for the guess. Applying the same pair twice is a no-op, and
// filters from different history entries commute.
func Filter(codes []Code, guess Code, fb Feedback) ([]Code, error) {
	out := make([]Code, 0, len(codes))
	for _, c := range codes {
		got, err := Score(guess, c)
		if err != nil {
			return nil, err
		}
		if got == fb {
			out = append(out, c)
		}
	}
	return out, nil
}

// Replay rebuilds the remaining set from scratch by filtering the full space
// through every history entry in order. If the recorded feedback is truthful
// the true secret is always a member of the result.
func Replay(codes []Code, history []GuessResult) ([]Code, error) {
	remaining := codes
	for _, gr := range history {
		var err error
		remaining, err = Filter(remaining, gr.Guess, gr.Feedback)
		if err != nil {
			return nil, err
		}
	}
	return remaining, nil
}
