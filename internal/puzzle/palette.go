package puzzle

import (
	"fmt"
	"strings"
)

// Symbol is an index into the master color palette. A difficulty activates
// the first ColorCount symbols.
type Symbol int

const (
	Red Symbol = iota
	Orange
	Yellow
	Green
	Blue
	Purple
	Pink
	Brown
)

// PaletteSize is the number of colors in the master palette.
const PaletteSize = 8

var paletteNames = [PaletteSize]string{
	"red", "orange", "yellow", "green", "blue", "purple", "pink", "brown",
}

func (s Symbol) Valid() bool {
	return s >= 0 && int(s) < PaletteSize
}

func (s Symbol) String() string {
	if !s.Valid() {
		return fmt.Sprintf("symbol(%d)", int(s))
	}
	return paletteNames[s]
}

// Code is a fixed-length ordered sequence of symbols.
type Code []Symbol

func (c Code) Equal(o Code) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

func (c Code) Clone() Code {
	out := make(Code, len(c))
	copy(out, c)
	return out
}

// Key returns a compact form usable as a map key.
func (c Code) Key() string {
	b := make([]byte, len(c))
	for i, s := range c {
		b[i] = byte('0' + s)
	}
	return string(b)
}

func (c Code) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return strings.Join(parts, "-")
}
