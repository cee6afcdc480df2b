package random

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source is a seeded stream of random draws owned by a single island or
// algorithm. Thread safety is by ownership: no two goroutines may share a
// Source.
type Source struct {
	seed int64
	rng  *rand.Rand
	src  rand.Source
}

// NewSource creates a source seeded with the given value.
func NewSource(seed int64) *Source {
	src := rand.NewSource(uint64(seed))
	return &Source{
		seed: seed,
		rng:  rand.New(src),
		src:  src,
	}
}

// Seed returns the seed this source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float64 returns a uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Uniform returns a uniform draw in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Intn returns a uniform draw in [0, n).
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Norm returns a draw from the normal distribution with the given mean and
// standard deviation, consuming from the same underlying stream as the
// uniform draws.
func (s *Source) Norm(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand()
}

// Fork returns a new independent source whose seed is derived from the next
// draw of this source. Used to hand a private stream to a sub-component.
func (s *Source) Fork() *Source {
	return NewSource(int64(s.rng.Uint64() >> 1))
}
