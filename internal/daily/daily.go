// Package daily derives deterministic puzzle seeds so that every player who
// starts the daily challenge on the same UTC date solves the same secret,
// and replaying a numbered level always reproduces its code.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey returns the UTC calendar date the daily puzzle is keyed by.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Seed derives the RNG seed for a date key. The salt keeps the sequence
// private: without it tomorrow's secret is computable in advance.
func Seed(salt, dateKey string) int64 {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(dateKey))
	sum := mac.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]) & math.MaxInt64)
}

// SeedForDate is Seed applied to t's UTC date.
func SeedForDate(salt string, t time.Time) int64 {
	return Seed(salt, DateKey(t))
}

// LevelSeed maps a level number onto a seed. Knuth's multiplicative hash
// spreads consecutive level ids across the seed space.
func LevelSeed(levelID int64) int64 {
	const knuth = 2654435761
	return (levelID * knuth) & math.MaxInt64
}
