package migration

import (
	"github.com/openevo/archipelago/pkg/population"
)

// SelectionPolicy chooses the emigrants an island offers to its neighbours.
// Select must not mutate the population; the returned individuals are
// independent copies.
type SelectionPolicy interface {
	// Name returns a short human-readable identifier.
	Name() string

	// Select returns the (possibly empty) list of emigrants.
	Select(pop *population.Population) []population.Individual

	// Clone returns an independent copy of the policy.
	Clone() SelectionPolicy
}

// Placement pairs a population slot with the index of the immigrant that
// should overwrite it.
type Placement struct {
	Slot      int
	Immigrant int
}

// ReplacementPolicy decides where incoming immigrants land. The island
// applies each placement by overwriting the slot and refreshing the
// population's champion and dominance list.
type ReplacementPolicy interface {
	// Name returns a short human-readable identifier.
	Name() string

	// Select returns the placements for the given immigrants.
	Select(immigrants []population.Individual, pop *population.Population) []Placement

	// Clone returns an independent copy of the policy.
	Clone() ReplacementPolicy
}
