package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiers_CanonicalValues(t *testing.T) {
	got := Tiers()
	require.Len(t, got, 6)

	want := []Difficulty{
		{Name: "beginner", CodeLength: 3, ColorCount: 4, AllowDuplicates: false, MaxAttempts: 6},
		{Name: "easy", CodeLength: 3, ColorCount: 5, AllowDuplicates: false, MaxAttempts: 6},
		{Name: "classic", CodeLength: 4, ColorCount: 6, AllowDuplicates: true, MaxAttempts: 8},
		{Name: "advanced", CodeLength: 4, ColorCount: 7, AllowDuplicates: true, MaxAttempts: 8},
		{Name: "expert", CodeLength: 5, ColorCount: 7, AllowDuplicates: true, MaxAttempts: 9},
		{Name: "master", CodeLength: 5, ColorCount: 8, AllowDuplicates: true, MaxAttempts: 10},
	}
	assert.Equal(t, want, got)

	for _, d := range got {
		assert.NoError(t, d.Validate(), d.Name)
	}
}

func TestTiers_ReturnsCopy(t *testing.T) {
	a := Tiers()
	a[0].MaxAttempts = 99
	b := Tiers()
	assert.Equal(t, 6, b[0].MaxAttempts)
}

func TestTierByName(t *testing.T) {
	d, ok := TierByName("master")
	require.True(t, ok)
	assert.Equal(t, 5, d.CodeLength)
	assert.Equal(t, 8, d.ColorCount)

	_, ok = TierByName("nightmare")
	assert.False(t, ok)
}

func TestDifficulty_Colors(t *testing.T) {
	d, _ := TierByName("classic")
	assert.Equal(t, []string{"red", "orange", "yellow", "green", "blue", "purple"}, d.Colors())
}

func TestDifficulty_ValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		d    Difficulty
	}{
		{name: "zero_length", d: Difficulty{CodeLength: 0, ColorCount: 4, MaxAttempts: 6}},
		{name: "zero_colors", d: Difficulty{CodeLength: 3, ColorCount: 0, MaxAttempts: 6}},
		{name: "palette_overflow", d: Difficulty{CodeLength: 3, ColorCount: 9, AllowDuplicates: true, MaxAttempts: 6}},
		{name: "no_dups_short_palette", d: Difficulty{CodeLength: 4, ColorCount: 3, MaxAttempts: 6}},
		{name: "zero_attempts", d: Difficulty{CodeLength: 3, ColorCount: 4, AllowDuplicates: true, MaxAttempts: 0}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.d.Validate())
		})
	}
}

func TestSymbol_String(t *testing.T) {
	assert.Equal(t, "red", Red.String())
	assert.Equal(t, "brown", Brown.String())
	assert.Equal(t, "symbol(12)", Symbol(12).String())
	assert.Equal(t, "red-green-blue", Code{Red, Green, Blue}.String())
}
