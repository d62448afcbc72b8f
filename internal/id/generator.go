package id

import (
	"time"

	fid "github.com/amterp/flexid"
)

var generator *fid.Generator

func init() {
	epoch := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	config := fid.NewConfig().
		WithEpoch(epoch).
		WithTickSize(10 * time.Millisecond).
		WithNumRandomChars(4)

	generator = fid.MustNewGenerator(config)
}

// Generate returns a new card ID.
func Generate() string {
	return generator.MustGenerate()
}

// GenerateUnique returns a new ID for which taken reports false.
// IDs are time-ordered with a random suffix, so a collision only happens when
// two cards are created in the same tick with the same suffix, and the next
// tick always yields fresh candidates.
func GenerateUnique(taken func(string) bool) string {
	for {
		candidate := Generate()
		if taken == nil || !taken(candidate) {
			return candidate
		}
	}
}
