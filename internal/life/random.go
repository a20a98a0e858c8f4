package life

import "golang.org/x/exp/rand"

// Source yields uniform values in [0, 1). *rand.Rand from math/rand or
// golang.org/x/exp/rand both satisfy it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic generator for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewSource(seed))
}
