package puzzle

// AllCodes enumerates every valid code for the difficulty, in lexicographic
// palette order. The result is generated once per solver and treated as
// read-only after that.
func AllCodes(d Difficulty) ([]Code, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	out := make([]Code, 0, d.SpaceSize())
	prefix := make(Code, 0, d.CodeLength)

	if d.AllowDuplicates {
		return expandAll(out, prefix, d.CodeLength, d.ColorCount), nil
	}

	var used [PaletteSize]bool
	return expandDistinct(out, prefix, d.CodeLength, d.ColorCount, &used), nil
}

func expandAll(out []Code, prefix Code, length, colors int) []Code {
	if len(prefix) == length {
		return append(out, prefix.Clone())
	}
	for s := Symbol(0); int(s) < colors; s++ {
		out = expandAll(out, append(prefix, s), length, colors)
	}
	return out
}

// expandDistinct prunes branches that would reuse a symbol, so only
// permutations are produced.
func expandDistinct(out []Code, prefix Code, length, colors int, used *[PaletteSize]bool) []Code {
	if len(prefix) == length {
		return append(out, prefix.Clone())
	}
	for s := Symbol(0); int(s) < colors; s++ {
		if used[s] {
			continue
		}
		used[s] = true
		out = expandDistinct(out, append(prefix, s), length, colors, used)
		used[s] = false
	}
	return out
}
