package algorithm

import (
	"github.com/openevo/archipelago/pkg/population"
)

// Algorithm is the capability set an island requires from an evolution
// strategy: evolve a population in place, report whether it must run on the
// calling goroutine, and support deep cloning so islands can own private
// copies.
type Algorithm interface {
	// Name returns a short human-readable identifier.
	Name() string

	// String returns the algorithm parameters in human-readable form.
	String() string

	// Evolve runs the algorithm on the population, writing every accepted
	// candidate back so callers observe an up-to-date population on return.
	Evolve(pop *population.Population) error

	// IsBlocking reports whether the algorithm must not run from a
	// background worker.
	IsBlocking() bool

	// Clone returns an independent copy of the algorithm, including any
	// adaptive state.
	Clone() Algorithm
}
