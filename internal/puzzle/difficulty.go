package puzzle

import "fmt"

// Difficulty is the immutable rule tuple for one game.
type Difficulty struct {
	Name            string `json:"name"`
	CodeLength      int    `json:"codeLength"`
	ColorCount      int    `json:"colorCount"`
	AllowDuplicates bool   `json:"allowDuplicates"`
	MaxAttempts     int    `json:"maxAttempts"`
}

var tiers = []Difficulty{
	{Name: "beginner", CodeLength: 3, ColorCount: 4, AllowDuplicates: false, MaxAttempts: 6},
	{Name: "easy", CodeLength: 3, ColorCount: 5, AllowDuplicates: false, MaxAttempts: 6},
	{Name: "classic", CodeLength: 4, ColorCount: 6, AllowDuplicates: true, MaxAttempts: 8},
	{Name: "advanced", CodeLength: 4, ColorCount: 7, AllowDuplicates: true, MaxAttempts: 8},
	{Name: "expert", CodeLength: 5, ColorCount: 7, AllowDuplicates: true, MaxAttempts: 9},
	{Name: "master", CodeLength: 5, ColorCount: 8, AllowDuplicates: true, MaxAttempts: 10},
}

// Tiers returns the canonical difficulty tiers, easiest first.
func Tiers() []Difficulty {
	out := make([]Difficulty, len(tiers))
	copy(out, tiers)
	return out
}

func TierByName(name string) (Difficulty, bool) {
	for _, d := range tiers {
		if d.Name == name {
			return d, true
		}
	}
	return Difficulty{}, false
}

func (d Difficulty) Validate() error {
	if d.CodeLength <= 0 {
		return fmt.Errorf("code length must be positive, got %d", d.CodeLength)
	}
	if d.ColorCount <= 0 {
		return fmt.Errorf("color count must be positive, got %d", d.ColorCount)
	}
	if d.ColorCount > PaletteSize {
		return fmt.Errorf("color count %d exceeds palette size %d", d.ColorCount, PaletteSize)
	}
	if !d.AllowDuplicates && d.ColorCount < d.CodeLength {
		return fmt.Errorf("%d colors cannot fill %d slots without duplicates", d.ColorCount, d.CodeLength)
	}
	if d.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got %d", d.MaxAttempts)
	}
	return nil
}

// SpaceSize counts the valid codes without enumerating them:
// colorCount^codeLength with duplicates, the falling factorial without.
func (d Difficulty) SpaceSize() int {
	n := 1
	for i := 0; i < d.CodeLength; i++ {
		if d.AllowDuplicates {
			n *= d.ColorCount
		} else {
			n *= d.ColorCount - i
		}
	}
	return n
}

// Colors returns the names of the active palette colors, in palette order.
func (d Difficulty) Colors() []string {
	out := make([]string, 0, d.ColorCount)
	for s := Symbol(0); int(s) < d.ColorCount && s.Valid(); s++ {
		out = append(out, s.String())
	}
	return out
}
