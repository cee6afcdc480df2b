package population

import (
	"fmt"
	"math"

	"github.com/openevo/archipelago/internal/random"
	"github.com/openevo/archipelago/pkg/problem"
	"github.com/openevo/archipelago/pkg/types"
)

// Population is a fixed-size ordered collection of individuals associated
// with a problem. It maintains the champion (best individual ever seen) and
// a dominance list for every slot.
//
// A population is not safe for concurrent use; ownership passes to a single
// worker while an island evolves.
type Population struct {
	prob    problem.Problem
	inds    []Individual
	champ   Champion
	domList [][]int
}

// New creates a population of n individuals drawn uniformly from the
// problem's box. Integer-tail components are rounded to the nearest integer.
// Velocities start at zero.
func New(prob problem.Problem, n int, rng *random.Source) (*Population, error) {
	if n < 0 {
		return nil, fmt.Errorf("population size must be nonnegative, got %d", n)
	}
	d, di, _, _ := prob.Dim()
	lb, ub := prob.Bounds()
	dc := d - di

	p := &Population{
		prob:    prob,
		inds:    make([]Individual, n),
		domList: make([][]int, n),
	}
	for i := 0; i < n; i++ {
		x := make(types.DecisionVector, d)
		for j := 0; j < d; j++ {
			x[j] = rng.Uniform(lb[j], ub[j])
			if j >= dc {
				x[j] = math.Round(x[j])
			}
		}
		f, err := prob.Objfun(x)
		if err != nil {
			return nil, err
		}
		p.inds[i] = Individual{
			CurX:  x,
			CurV:  make(types.DecisionVector, d),
			CurF:  f,
			BestX: x.Clone(),
			BestF: f.Clone(),
		}
		p.domList[i] = []int{}
		p.updateChampion(i)
	}
	for i := 0; i < n; i++ {
		p.updateDomList(i)
	}
	return p, nil
}

// Size returns the number of individuals.
func (p *Population) Size() int {
	return len(p.inds)
}

// Problem returns the problem this population is associated with. The
// returned value is the population's own instance; callers must not mutate
// it. Use Problem().Clone() for an independent copy.
func (p *Population) Problem() problem.Problem {
	return p.prob
}

// Individual returns a deep copy of the individual at slot i.
func (p *Population) Individual(i int) Individual {
	return p.inds[i].Clone()
}

// Individuals returns deep copies of all individuals.
func (p *Population) Individuals() []Individual {
	out := make([]Individual, len(p.inds))
	for i := range p.inds {
		out[i] = p.inds[i].Clone()
	}
	return out
}

// Champion returns a deep copy of the best individual ever seen.
func (p *Population) Champion() Champion {
	return p.champ.Clone()
}

// DomList returns a copy of the set of slot indices dominated by slot i.
func (p *Population) DomList(i int) []int {
	out := make([]int, len(p.domList[i]))
	copy(out, p.domList[i])
	return out
}

// SetX updates the decision vector of slot i, re-evaluating the objective
// function. Best position, champion and dominance list are refreshed.
func (p *Population) SetX(i int, x types.DecisionVector) error {
	if err := p.checkX(x); err != nil {
		return err
	}
	f, err := p.prob.Objfun(x)
	if err != nil {
		return err
	}
	p.setXF(i, x, f)
	return nil
}

// SetXF updates the decision vector of slot i with a fitness the caller has
// already computed, skipping the objective re-evaluation. The fitness must
// be the value of the problem's objective at x.
func (p *Population) SetXF(i int, x types.DecisionVector, f types.FitnessVector) error {
	if err := p.checkX(x); err != nil {
		return err
	}
	p.setXF(i, x, f)
	return nil
}

func (p *Population) setXF(i int, x types.DecisionVector, f types.FitnessVector) {
	ind := &p.inds[i]
	ind.CurX = x.Clone()
	ind.CurF = f.Clone()
	if ind.BestF == nil || p.prob.CompareFitness(f, ind.BestF) {
		ind.BestX = x.Clone()
		ind.BestF = f.Clone()
	}
	p.updateChampion(i)
	p.updateDomList(i)
}

// SetV updates the velocity of slot i.
func (p *Population) SetV(i int, v types.DecisionVector) error {
	d, _, _, _ := p.prob.Dim()
	if len(v) != d {
		return fmt.Errorf("velocity has length %d, want %d", len(v), d)
	}
	p.inds[i].CurV = v.Clone()
	return nil
}

// Replace overwrites slot i with the given individual and refreshes the
// champion and dominance list for that slot. It is the entry point used
// when applying migration placements.
func (p *Population) Replace(i int, ind Individual) {
	p.inds[i] = ind.Clone()
	p.updateChampion(i)
	p.updateDomList(i)
}

// BestIdx returns the slot whose current fitness is best under the
// problem's order.
func (p *Population) BestIdx() int {
	best := 0
	for i := 1; i < len(p.inds); i++ {
		if p.prob.CompareFitness(p.inds[i].CurF, p.inds[best].CurF) {
			best = i
		}
	}
	return best
}

// WorstIdx returns the slot whose current fitness is worst under the
// problem's order.
func (p *Population) WorstIdx() int {
	worst := 0
	for i := 1; i < len(p.inds); i++ {
		if p.prob.CompareFitness(p.inds[worst].CurF, p.inds[i].CurF) {
			worst = i
		}
	}
	return worst
}

// Clone returns an independent deep copy of the population, including a
// clone of the associated problem.
func (p *Population) Clone() *Population {
	out := &Population{
		prob:    p.prob.Clone(),
		inds:    make([]Individual, len(p.inds)),
		champ:   p.champ.Clone(),
		domList: make([][]int, len(p.domList)),
	}
	for i := range p.inds {
		out.inds[i] = p.inds[i].Clone()
	}
	for i := range p.domList {
		out.domList[i] = make([]int, len(p.domList[i]))
		copy(out.domList[i], p.domList[i])
	}
	return out
}

// Equal reports whether two populations hold identical individuals in the
// same order.
func (p *Population) Equal(other *Population) bool {
	if len(p.inds) != len(other.inds) {
		return false
	}
	for i := range p.inds {
		if !p.inds[i].Equal(other.inds[i]) {
			return false
		}
	}
	return true
}

func (p *Population) checkX(x types.DecisionVector) error {
	d, _, _, _ := p.prob.Dim()
	if len(x) != d {
		return fmt.Errorf("decision vector has length %d, want %d", len(x), d)
	}
	lb, ub := p.prob.Bounds()
	for j := range x {
		if x[j] < lb[j] || x[j] > ub[j] {
			return fmt.Errorf("decision vector component %d = %g outside [%g, %g]", j, x[j], lb[j], ub[j])
		}
	}
	return nil
}

// updateChampion refreshes the champion against slot i. Both the current and
// the best-so-far fitness are considered, so replacing a slot with an
// individual whose memory is better than its position keeps the champion
// invariant intact.
func (p *Population) updateChampion(i int) {
	ind := &p.inds[i]
	if p.champ.X == nil || p.prob.CompareFitness(ind.CurF, p.champ.F) {
		p.champ = Champion{X: ind.CurX.Clone(), F: ind.CurF.Clone()}
	}
	if ind.BestF != nil && p.prob.CompareFitness(ind.BestF, p.champ.F) {
		p.champ = Champion{X: ind.BestX.Clone(), F: ind.BestF.Clone()}
	}
}

// updateDomList recomputes the dominance relation between slot i and every
// other slot, in both directions.
func (p *Population) updateDomList(i int) {
	p.domList[i] = p.domList[i][:0]
	for j := range p.inds {
		if j == i {
			continue
		}
		if p.prob.CompareFitness(p.inds[i].CurF, p.inds[j].CurF) {
			p.domList[i] = append(p.domList[i], j)
		}
		p.domList[j] = removeIdx(p.domList[j], i)
		if p.prob.CompareFitness(p.inds[j].CurF, p.inds[i].CurF) {
			p.domList[j] = append(p.domList[j], i)
		}
	}
}

func removeIdx(list []int, idx int) []int {
	for k, v := range list {
		if v == idx {
			return append(list[:k], list[k+1:]...)
		}
	}
	return list
}
