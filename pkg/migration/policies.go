package migration

import (
	"fmt"
	"sort"

	"github.com/openevo/archipelago/internal/random"
	"github.com/openevo/archipelago/pkg/population"
)

// BestSelection emigrates the n individuals with the best current fitness.
type BestSelection struct {
	n int
}

// NewBestSelection creates a policy emigrating the best n individuals.
// Nonpositive n selects nobody.
func NewBestSelection(n int) *BestSelection {
	return &BestSelection{n: n}
}

// Name returns the policy identifier.
func (s *BestSelection) Name() string {
	return fmt.Sprintf("best-%d selection", s.n)
}

// Select returns copies of the best n individuals.
func (s *BestSelection) Select(pop *population.Population) []population.Individual {
	if s.n <= 0 || pop.Size() == 0 {
		return nil
	}
	order := rankByCurrentFitness(pop)
	count := s.n
	if count > pop.Size() {
		count = pop.Size()
	}
	out := make([]population.Individual, 0, count)
	for _, idx := range order[:count] {
		out = append(out, pop.Individual(idx))
	}
	return out
}

// Clone returns an independent copy of the policy.
func (s *BestSelection) Clone() SelectionPolicy {
	return &BestSelection{n: s.n}
}

// RandomSelection emigrates n individuals drawn uniformly without
// replacement.
type RandomSelection struct {
	n   int
	rng *random.Source
}

// NewRandomSelection creates a policy emigrating n uniformly drawn
// individuals.
func NewRandomSelection(n int, seed int64) *RandomSelection {
	return &RandomSelection{n: n, rng: random.NewSource(seed)}
}

// Name returns the policy identifier.
func (s *RandomSelection) Name() string {
	return fmt.Sprintf("random-%d selection", s.n)
}

// Select returns copies of n distinct uniformly drawn individuals.
func (s *RandomSelection) Select(pop *population.Population) []population.Individual {
	if s.n <= 0 || pop.Size() == 0 {
		return nil
	}
	count := s.n
	if count > pop.Size() {
		count = pop.Size()
	}
	perm := make([]int, pop.Size())
	for i := range perm {
		perm[i] = i
	}
	for i := range perm {
		j := i + s.rng.Intn(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	out := make([]population.Individual, 0, count)
	for _, idx := range perm[:count] {
		out = append(out, pop.Individual(idx))
	}
	return out
}

// Clone returns an independent copy of the policy with a fresh stream from
// the same seed.
func (s *RandomSelection) Clone() SelectionPolicy {
	return &RandomSelection{n: s.n, rng: random.NewSource(s.rng.Seed())}
}

// FairReplacement places each immigrant on the worst remaining incumbent,
// but only when the immigrant's current fitness strictly improves on it.
type FairReplacement struct{}

// NewFairReplacement creates the fairness-preserving replacement policy.
func NewFairReplacement() *FairReplacement {
	return &FairReplacement{}
}

// Name returns the policy identifier.
func (r *FairReplacement) Name() string {
	return "fair replacement"
}

// Select pairs the best immigrants against the worst incumbents, keeping
// only the pairings that improve the population.
func (r *FairReplacement) Select(immigrants []population.Individual, pop *population.Population) []Placement {
	if len(immigrants) == 0 || pop.Size() == 0 {
		return nil
	}
	prob := pop.Problem()

	immOrder := make([]int, len(immigrants))
	for i := range immOrder {
		immOrder[i] = i
	}
	sort.SliceStable(immOrder, func(a, b int) bool {
		return prob.CompareFitness(immigrants[immOrder[a]].CurF, immigrants[immOrder[b]].CurF)
	})

	// incumbents, worst first
	slotOrder := rankByCurrentFitness(pop)
	for i, j := 0, len(slotOrder)-1; i < j; i, j = i+1, j-1 {
		slotOrder[i], slotOrder[j] = slotOrder[j], slotOrder[i]
	}

	var placements []Placement
	for k := 0; k < len(immOrder) && k < len(slotOrder); k++ {
		imm := immigrants[immOrder[k]]
		slot := slotOrder[k]
		if prob.CompareFitness(imm.CurF, pop.Individual(slot).CurF) {
			placements = append(placements, Placement{Slot: slot, Immigrant: immOrder[k]})
		}
	}
	return placements
}

// Clone returns an independent copy of the policy.
func (r *FairReplacement) Clone() ReplacementPolicy {
	return &FairReplacement{}
}

// rankByCurrentFitness returns slot indices ordered best-first under the
// problem's fitness order.
func rankByCurrentFitness(pop *population.Population) []int {
	prob := pop.Problem()
	order := make([]int, pop.Size())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return prob.CompareFitness(pop.Individual(order[a]).CurF, pop.Individual(order[b]).CurF)
	})
	return order
}
